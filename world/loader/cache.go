package loader

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/df-mc/goleveldb/leveldb"

	"github.com/nn-sim/core/block"
	"github.com/nn-sim/core/coord"
	"github.com/nn-sim/core/world"
)

// cachePayload is the gob-encoded record stored per slab. gob is this
// module's substitute for spec.md §6's "bincode-style serialisation": Go
// has no bincode equivalent in the example corpus, and gob is the standard
// library's idiomatic binary codec, paired here with the teacher's
// goleveldb for on-disk storage (see DESIGN.md's serialisation decision).
type cachePayload struct {
	Index coord.SlabIndex
}

// CachedSource wraps an underlying TerrainSource with an on-disk LevelDB
// cache keyed by the hex-encoded 64-bit xxhash (not a SHA-256 digest) of
// the source's Params(),
// per spec.md §6's slab cache file format (reworked from a flat-file-per-
// hash layout to one LevelDB keyspace, matching the teacher's goleveldb
// usage in server/world/world.go). Cache entries are write-once: a
// mismatched parameter hash is a different key entirely, so it naturally
// triggers regeneration rather than a stale hit.
type CachedSource struct {
	inner TerrainSource
	db    *leveldb.DB
	nsKey []byte
}

// OpenCachedSource opens (creating if absent) a LevelDB store under dir and
// wraps inner with it. The namespace key is derived from inner.Params()
// via xxhash, matching the teacher's dependency on xxhash for fast content
// hashing elsewhere in its stack.
func OpenCachedSource(dir string, inner TerrainSource) (*CachedSource, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("loader: create cache dir: %w", err)
	}
	db, err := leveldb.OpenFile(filepath.Join(dir, "slabs.ldb"), nil)
	if err != nil {
		return nil, fmt.Errorf("loader: open slab cache: %w", err)
	}
	sum := xxhash.Sum64(inner.Params())
	ns := []byte(hex.EncodeToString([]byte{
		byte(sum >> 56), byte(sum >> 48), byte(sum >> 40), byte(sum >> 32),
		byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum),
	}))
	return &CachedSource{inner: inner, db: db, nsKey: ns}, nil
}

// Close closes the underlying LevelDB handle.
func (c *CachedSource) Close() error { return c.db.Close() }

// Params implements TerrainSource, delegating to the wrapped source.
func (c *CachedSource) Params() []byte { return c.inner.Params() }

// Generate implements TerrainSource: a cache hit decodes and returns the
// stored slab; a miss generates via the wrapped source and stores the
// result before returning it.
func (c *CachedSource) Generate(ctx context.Context, loc coord.SlabLocation) (*world.Slab, error) {
	key := c.cacheKey(loc)
	if raw, err := c.db.Get(key, nil); err == nil {
		slab, decodeErr := decodeSlab(raw)
		if decodeErr != nil {
			return nil, fmt.Errorf("loader: decode cached slab %v: %w", loc, decodeErr)
		}
		return slab, nil
	} else if !errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("loader: read slab cache %v: %w", loc, err)
	}

	slab, err := c.inner.Generate(ctx, loc)
	if err != nil {
		return nil, err
	}
	encoded, err := encodeSlab(slab)
	if err != nil {
		return nil, fmt.Errorf("loader: encode slab %v for cache: %w", loc, err)
	}
	if err := c.db.Put(key, encoded, nil); err != nil {
		return nil, fmt.Errorf("loader: write slab cache %v: %w", loc, err)
	}
	return slab, nil
}

func (c *CachedSource) cacheKey(loc coord.SlabLocation) []byte {
	return []byte(fmt.Sprintf("%s/%d/%d/%d", c.nsKey, loc.Chunk.X, loc.Chunk.Y, loc.Slab))
}

func encodeSlab(s *world.Slab) ([]byte, error) {
	blocks := make([]block.Block, 0, coord.BlockCountSlab)
	s.EachSlice(func(_ coord.LocalSliceIndex, bs []block.Block) {
		blocks = append(blocks, bs...)
	})
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cachePayload{Index: s.Index()}); err != nil {
		return nil, err
	}
	// Blocks are encoded separately from the envelope so a future format
	// change to cachePayload doesn't require re-encoding every block.
	var blockBuf bytes.Buffer
	if err := gob.NewEncoder(&blockBuf).Encode(blocks); err != nil {
		return nil, err
	}
	return append(buf.Bytes(), blockBuf.Bytes()...), nil
}

func decodeSlab(raw []byte) (*world.Slab, error) {
	dec := gob.NewDecoder(bytes.NewReader(raw))
	var payload cachePayload
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	var blocks []block.Block
	if err := dec.Decode(&blocks); err != nil {
		return nil, err
	}
	if len(blocks) != coord.BlockCountSlab {
		return nil, fmt.Errorf("loader: cached slab has %d blocks, want %d", len(blocks), coord.BlockCountSlab)
	}
	s := world.NewEmptySlab(payload.Index)
	i := 0
	s.EachSlice(func(_ coord.LocalSliceIndex, bs []block.Block) {
		copy(bs, blocks[i:i+len(bs)])
		i += len(bs)
	})
	return s, nil
}
