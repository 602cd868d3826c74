// Package config loads the configuration surface of spec.md §6: world
// preload/source/worker settings and simulation seeding/timing settings,
// as a TOML document. Grounded on the teacher's config-struct-with-
// withDefaults pattern (server/world/redstone/config.go) — zero value
// usable, explicit defaulting function — surfaced via the pack's
// pelletier/go-toml decoder rather than the teacher's own flag-based CLI
// config, since spec.md §6 names a config file, not flags.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	toml "github.com/pelletier/go-toml"
)

// WorldSourceKind selects world.source's preset-or-generator split.
type WorldSourceKind string

const (
	SourceOneChunk   WorldSourceKind = "one-chunk"
	SourceMultiChunk WorldSourceKind = "multi-chunk"
	SourceFlat       WorldSourceKind = "flat"
	SourceBottleneck WorldSourceKind = "bottleneck"
	SourceStairs     WorldSourceKind = "stairs"
	SourceGenerate   WorldSourceKind = "generate"
)

// ChunkCoord is a TOML-friendly (x, y) pair, decoded from `{x = .., y = ..}`.
type ChunkCoord struct {
	X int32 `toml:"x"`
	Y int32 `toml:"y"`
}

// World holds spec.md §6's `world.*` options.
type World struct {
	Source              WorldSourceKind `toml:"source"`
	GeneratorParamsPath string          `toml:"generator_params_path"`
	InitialChunk        ChunkCoord      `toml:"initial_chunk"`
	InitialChunkRadius  int             `toml:"initial_chunk_radius"`
	InitialSlabDepth    int             `toml:"initial_slab_depth"`
	WorkerThreads       int             `toml:"worker_threads"`
	LoadTimeoutSeconds  int             `toml:"load_timeout"`
	CacheDir            string          `toml:"cache_dir"`
}

// Simulation holds spec.md §6's `simulation.*` options.
type Simulation struct {
	RandomSeed int64   `toml:"random_seed"`
	StartDelay int64   `toml:"start_delay"`
	HerdRadius float32 `toml:"herd_radius"`
}

// Config is the top-level configuration document.
type Config struct {
	World      World      `toml:"world"`
	Simulation Simulation `toml:"simulation"`
}

// Load reads and parses a TOML config file at path, then applies defaults
// to any field left at its zero value.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c Config
	if err := toml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c.withDefaults(), nil
}

// withDefaults fills in zero-valued fields with the defaults named in
// spec.md §6 ("default: hardware concurrency") or otherwise sensible ones.
// The zero Config is itself a usable configuration: the flat preset,
// preloading a radius-2 square of chunks (5x5) around the origin with slabs
// -1 through 1, and no simulation delay.
func (c Config) withDefaults() Config {
	if c.World.Source == "" {
		c.World.Source = SourceFlat
	}
	if c.World.InitialChunkRadius <= 0 {
		c.World.InitialChunkRadius = 2
	}
	if c.World.InitialSlabDepth <= 0 {
		c.World.InitialSlabDepth = 1
	}
	if c.World.WorkerThreads <= 0 {
		c.World.WorkerThreads = runtime.GOMAXPROCS(0)
	}
	if c.World.LoadTimeoutSeconds <= 0 {
		c.World.LoadTimeoutSeconds = 30
	}
	if c.World.CacheDir == "" {
		c.World.CacheDir = os.TempDir() + "/nn-procgen-cache"
	}
	if c.Simulation.HerdRadius <= 0 {
		c.Simulation.HerdRadius = 8
	}
	return c
}

// LoadTimeout returns World.LoadTimeoutSeconds as a time.Duration.
func (w World) LoadTimeout() time.Duration {
	return time.Duration(w.LoadTimeoutSeconds) * time.Second
}
