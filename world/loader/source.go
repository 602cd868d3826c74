package loader

import (
	"context"
	"fmt"

	"github.com/nn-sim/core/block"
	"github.com/nn-sim/core/coord"
	"github.com/nn-sim/core/world"
)

// TerrainSource produces terrain for a slab. Implementations are pluggable
// per spec.md §4.5: preset (in-memory), generator (procedural), and cache
// (on-disk) sit behind this one interface.
type TerrainSource interface {
	// Generate fills and returns a brand-new slab for loc. It must not
	// retain the returned slab after returning it (the pipeline takes
	// ownership). An error marks the slab Failed and is never retried.
	Generate(ctx context.Context, loc coord.SlabLocation) (*world.Slab, error)

	// Params returns a stable byte encoding of this source's
	// configuration, used as the cache key when wrapped by CachedSource.
	Params() []byte
}

// PresetKind selects one of the built-in in-memory terrain presets from
// spec.md §6's world.source option.
type PresetKind uint8

const (
	PresetOneChunk PresetKind = iota
	PresetMultiChunk
	PresetFlat
	PresetBottleneck
	PresetStairs
)

// PresetSource is the in-memory, parameter-free terrain source used for
// fixtures and the scenarios in spec.md §8 (S1-S6).
type PresetSource struct {
	Kind PresetKind
}

// Params implements TerrainSource.
func (p PresetSource) Params() []byte {
	return []byte{'p', 'r', 'e', 's', 'e', 't', byte(p.Kind)}
}

// Generate implements TerrainSource.
func (p PresetSource) Generate(_ context.Context, loc coord.SlabLocation) (*world.Slab, error) {
	switch p.Kind {
	case PresetFlat:
		return generateFlat(loc), nil
	case PresetBottleneck:
		return generateBottleneck(loc), nil
	case PresetStairs:
		return generateStairs(loc), nil
	case PresetOneChunk, PresetMultiChunk:
		return generateFlat(loc), nil
	default:
		return nil, fmt.Errorf("loader: unknown preset kind %d", p.Kind)
	}
}

// generateFlat fills slab 0's bottom slice with Grass and leaves every
// other slab all-air, giving a single flat floor.
func generateFlat(loc coord.SlabLocation) *world.Slab {
	if loc.Slab != 0 {
		return world.NewUniformSlab(loc.Slab, block.Air)
	}
	s := world.NewEmptySlab(loc.Slab)
	for y := uint8(0); y < coord.ChunkSize; y++ {
		for x := uint8(0); x < coord.ChunkSize; x++ {
			s.Set(coord.SlabPos{X: x, Y: y, Z: 0}, block.NewBlock(block.Grass))
		}
	}
	return s
}

// generateBottleneck is a flat floor with a single-block-wide gap in an
// otherwise impassable wall, used to exercise narrow-corridor pathing.
func generateBottleneck(loc coord.SlabLocation) *world.Slab {
	s := generateFlat(loc)
	if loc.Slab != 0 {
		return s
	}
	const gapY = coord.ChunkSize / 2
	for y := uint8(0); y < coord.ChunkSize; y++ {
		if y == gapY {
			continue
		}
		s.Set(coord.SlabPos{X: 8, Y: y, Z: 0}, block.NewBlock(block.StoneBrickWall))
		s.Set(coord.SlabPos{X: 8, Y: y, Z: 1}, block.NewBlock(block.StoneBrickWall))
	}
	return s
}

// generateStairs is a flat floor rising by one block every four columns,
// exercising the JumpUp/JumpDown edge classification.
func generateStairs(loc coord.SlabLocation) *world.Slab {
	if loc.Slab != 0 {
		return world.NewUniformSlab(loc.Slab, block.Air)
	}
	s := world.NewEmptySlab(loc.Slab)
	for y := uint8(0); y < coord.ChunkSize; y++ {
		for x := uint8(0); x < coord.ChunkSize; x++ {
			step := coord.LocalSliceIndex(x / 4)
			if step >= coord.SlabSize {
				step = coord.SlabSize - 1
			}
			s.Set(coord.SlabPos{X: x, Y: y, Z: step}, block.NewBlock(block.Stone))
		}
	}
	return s
}
