// Package loader implements the async, out-of-order terrain pipeline of
// spec.md §4.5: a worker pool that generates and discovers slabs, coalesces
// duplicate requests, enforces the six-face-neighbour dependency for
// discovery, and installs each generated slab into the world store under
// its owning chunk's lock. Grounded on server/world/redstone/{worker,router,scheduler}.go's
// channel-driven worker/dispatch shape, re-themed from redstone signal
// propagation to terrain generation and area discovery.
package loader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nn-sim/core/block"
	"github.com/nn-sim/core/coord"
	"github.com/nn-sim/core/world"
	"github.com/nn-sim/core/world/discovery"
	"github.com/nn-sim/core/world/nav"
)

// Pipeline drives slabs from Requested through Navigable (or Failed).
type Pipeline struct {
	cfg    Config
	store  *world.Store
	source TerrainSource
	log    *slog.Logger

	sem  *semaphore.Weighted
	jobs chan coord.SlabLocation

	mu          sync.Mutex
	progress    map[coord.SlabLocation]world.Progress
	discoveries map[coord.SlabLocation]*discovery.SlabDiscovery
	pending     map[coord.SlabLocation]struct{} // awaiting neighbour TerrainReady
	buffered    map[coord.SlabLocation][]world.Edit
	requestedAt map[coord.SlabLocation]time.Time

	areaGraph   *nav.AreaGraph
	chunkGraphs map[coord.ChunkPos]*nav.ChunkAreaGraph

	outstanding *requestSet

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New constructs a Pipeline and starts its worker pool.
func New(store *world.Store, source TerrainSource, cfg Config, log *slog.Logger) *Pipeline {
	cfg = cfg.withDefaults()
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pipeline{
		cfg:         cfg,
		store:       store,
		source:      source,
		log:         log,
		sem:         semaphore.NewWeighted(int64(cfg.WorkerThreads * cfg.MaxInFlightPerWorker)),
		jobs:        make(chan coord.SlabLocation, 4096),
		progress:    make(map[coord.SlabLocation]world.Progress),
		discoveries: make(map[coord.SlabLocation]*discovery.SlabDiscovery),
		pending:     make(map[coord.SlabLocation]struct{}),
		buffered:    make(map[coord.SlabLocation][]world.Edit),
		requestedAt: make(map[coord.SlabLocation]time.Time),
		areaGraph:   nav.NewAreaGraph(),
		chunkGraphs: make(map[coord.ChunkPos]*nav.ChunkAreaGraph),
		outstanding: newRequestSet(),
		cancel:      cancel,
	}
	for i := 0; i < cfg.WorkerThreads; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
	p.wg.Add(1)
	go p.runWatchdog(ctx)
	return p
}

// runWatchdog fails any slab that has sat in-flight (TerrainInFlight or
// DiscoveryInFlight) longer than cfg.LoadTimeout, per spec.md §6's
// world.load_timeout option.
func (p *Pipeline) runWatchdog(ctx context.Context) {
	defer p.wg.Done()
	interval := p.cfg.LoadTimeout / 4
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sweepTimeouts()
			p.sweepPending()
		}
	}
}

// sweepPending periodically retries every slab parked awaiting a neighbour,
// as a backstop against the narrow window between a neighbour's readiness
// check and its pending-set registration racing a concurrent generate.
func (p *Pipeline) sweepPending() {
	p.mu.Lock()
	locs := make([]coord.SlabLocation, 0, len(p.pending))
	for loc := range p.pending {
		locs = append(locs, loc)
	}
	p.mu.Unlock()
	for _, loc := range locs {
		p.enqueueDiscoveryAttempt(loc)
	}
}

func (p *Pipeline) sweepTimeouts() {
	now := nowOrZero()
	p.mu.Lock()
	defer p.mu.Unlock()
	for loc, prog := range p.progress {
		if prog != world.TerrainInFlight && prog != world.DiscoveryInFlight {
			continue
		}
		if now.Sub(p.requestedAt[loc]) > p.cfg.LoadTimeout {
			p.progress[loc] = world.Failed
			p.log.Warn("slab load timed out", "slab", loc.String())
		}
	}
}

// Close stops the worker pool. Outstanding in-flight work is allowed to
// finish; no new jobs are accepted after Close returns.
func (p *Pipeline) Close() {
	p.cancel()
	close(p.jobs)
	p.wg.Wait()
}

// Progress returns the current pipeline state of a slab (Requested's zero
// value if it has never been requested).
func (p *Pipeline) Progress(loc coord.SlabLocation) world.Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress[loc]
}

// AreaGraph returns the pipeline's shared area graph, built up
// incrementally as slabs are discovered.
func (p *Pipeline) AreaGraph() *nav.AreaGraph { return p.areaGraph }

// AreaOf implements nav.AreaResolver: it reports the WorldArea pos belongs
// to, or false if pos's slab hasn't been discovered yet or pos isn't a
// walkable block top.
func (p *Pipeline) AreaOf(pos coord.BlockPos) (nav.WorldArea, bool) {
	loc := pos.Slab()
	p.mu.Lock()
	d, ok := p.discoveries[loc]
	p.mu.Unlock()
	if !ok {
		return nav.WorldArea{}, false
	}
	area, ok := d.AreaOf[pos.SlabPos()]
	if !ok || area == block.NoArea {
		return nav.WorldArea{}, false
	}
	return nav.SlabArea{Slab: loc.Slab, Area: area}.Of(loc.Chunk), true
}

// BlockGraph implements nav.AreaResolver: it returns the per-area block
// graph discovery built for area's slab, or false if that slab hasn't been
// discovered (or area is stale, e.g. after re-discovery renumbered its
// labels).
func (p *Pipeline) BlockGraph(area nav.WorldArea) (*nav.BlockGraph, bool) {
	loc := coord.SlabLocation{Chunk: area.Chunk, Slab: area.Slab}
	p.mu.Lock()
	d, ok := p.discoveries[loc]
	p.mu.Unlock()
	if !ok {
		return nil, false
	}
	g, ok := d.Graphs[area.Area]
	return g, ok
}

// Request coalesces and submits a chunk/slab range for loading, per
// spec.md §4.5: slabs already at or past Navigable are skipped, and
// requests already outstanding are deduplicated.
func (p *Pipeline) Request(chunks []coord.ChunkPos, slabs [2]coord.SlabIndex) {
	for _, c := range chunks {
		for s := slabs[0]; s <= slabs[1]; s++ {
			loc := coord.SlabLocation{Chunk: c, Slab: s}
			p.requestOne(loc)
		}
	}
}

func (p *Pipeline) requestOne(loc coord.SlabLocation) {
	p.mu.Lock()
	if p.progress[loc].AtLeast(world.Navigable) {
		p.mu.Unlock()
		return
	}
	if _, ok := p.progress[loc]; !ok {
		p.progress[loc] = world.Requested
	}
	p.requestedAt[loc] = nowOrZero()
	p.mu.Unlock()

	key := packKey(loc)
	if !p.outstanding.addIfAbsent(key) {
		return
	}
	select {
	case p.jobs <- loc:
	default:
		// Overflow: spec.md's back-pressure rule queues rather than
		// blocking the requester. A blocking send from a dedicated
		// goroutine keeps Request itself non-blocking.
		go func() { p.jobs <- loc }()
	}
}

// nowOrZero exists only so a future swap to an injected clock (for
// deterministic load-timeout tests) touches one call site.
func nowOrZero() time.Time { return time.Now() }

func (p *Pipeline) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	for loc := range p.jobs {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return
		}
		p.process(ctx, loc)
		p.sem.Release(1)
		p.outstanding.remove(packKey(loc))
	}
}

// process runs whichever step loc's current progress calls for: generate
// if Requested, discover if TerrainReady and its neighbours qualify.
func (p *Pipeline) process(ctx context.Context, loc coord.SlabLocation) {
	switch p.Progress(loc) {
	case world.Requested:
		p.generate(ctx, loc)
	case world.TerrainReady:
		p.tryDiscover(ctx, loc)
	default:
	}
}

func (p *Pipeline) generate(ctx context.Context, loc coord.SlabLocation) {
	p.setProgress(loc, world.TerrainInFlight)

	slab, err := p.source.Generate(ctx, loc)
	if err != nil {
		p.log.Error("terrain generation failed", "slab", loc.String(), "error", err)
		p.setProgress(loc, world.Failed)
		return
	}

	p.store.InstallSlab(loc, world.NewSlabHandle(slab))
	p.setProgress(loc, world.TerrainReady)
	p.replayBuffered(loc)

	// Attempt this slab's own discovery now that its terrain is ready, and
	// unblock any neighbours that were pending on it.
	p.enqueueDiscoveryAttempt(loc)
	for _, f := range discovery.Faces {
		p.maybeRetryDiscovery(f.NeighbourSlab(loc))
	}
}

func (p *Pipeline) maybeRetryDiscovery(loc coord.SlabLocation) {
	p.mu.Lock()
	_, isPending := p.pending[loc]
	p.mu.Unlock()
	if isPending {
		p.enqueueDiscoveryAttempt(loc)
	}
}

// enqueueDiscoveryAttempt submits loc for (re-)processing if it's currently
// TerrainReady, deduplicating against any already-outstanding job for it.
func (p *Pipeline) enqueueDiscoveryAttempt(loc coord.SlabLocation) {
	if p.Progress(loc) != world.TerrainReady {
		return
	}
	key := packKey(loc)
	if !p.outstanding.addIfAbsent(key) {
		return
	}
	select {
	case p.jobs <- loc:
	default:
		go func() { p.jobs <- loc }()
	}
}

// tryDiscover attempts Phase A+B discovery for loc. If any of the six face
// neighbours hasn't reached TerrainReady yet, loc is parked in the pending
// set and discovery is retried once that neighbour arrives (see generate's
// maybeRetryDiscovery fan-out), per spec.md's dependency invariant.
func (p *Pipeline) tryDiscover(ctx context.Context, loc coord.SlabLocation) {
	neighbourLocs := make(map[discovery.Face]coord.SlabLocation, 6)
	for _, f := range discovery.Faces {
		neighbourLocs[f] = f.NeighbourSlab(loc)
	}

	for _, nloc := range neighbourLocs {
		if !p.Progress(nloc).AtLeast(world.TerrainReady) {
			p.mu.Lock()
			p.pending[loc] = struct{}{}
			p.mu.Unlock()
			return
		}
	}

	p.mu.Lock()
	delete(p.pending, loc)
	p.mu.Unlock()
	p.setProgress(loc, world.DiscoveryInFlight)

	chunk, ok := p.store.ChunkIfPresent(loc.Chunk)
	if !ok {
		p.setProgress(loc, world.Failed)
		return
	}
	handle, ok := chunk.Slab(loc.Slab)
	if !ok {
		p.setProgress(loc, world.Failed)
		return
	}

	mine := discovery.DiscoverSlab(loc, handle.Read(), p.aboveOpaqueLookup(loc, chunk))

	p.mu.Lock()
	p.discoveries[loc] = mine
	neighbourDiscoveries := make(map[discovery.Face]*discovery.SlabDiscovery, 6)
	for f, nloc := range neighbourLocs {
		neighbourDiscoveries[f] = p.discoveries[nloc]
	}
	p.mu.Unlock()

	stitched := discovery.Stitch(loc, mine, neighbourDiscoveries)

	p.mu.Lock()
	cg, ok := p.chunkGraphs[loc.Chunk]
	if !ok {
		cg = nav.NewChunkAreaGraph(loc.Chunk)
		p.chunkGraphs[loc.Chunk] = cg
	}
	for _, st := range stitched {
		p.areaGraph.AddEdge(st.From, st.Edge)
		if st.Edge.To.Chunk == loc.Chunk {
			cg.AddEdge(st.From, st.Edge)
		}
	}
	p.mu.Unlock()

	p.setProgress(loc, world.Navigable)
	p.maybeRetryDiscovery(loc)
}

// aboveOpaqueLookup builds Phase A's top-slice opacity probe for loc, backed
// by the real block data of the slab above (already confirmed TerrainReady
// by tryDiscover's neighbour check). Falls back to "transparent" only if
// that slab turns out to be absent from the store, which should not happen
// given the neighbour check but keeps DiscoverSlab total.
func (p *Pipeline) aboveOpaqueLookup(loc coord.SlabLocation, chunk *world.Chunk) func(coord.SlabPos) bool {
	aboveHandle, ok := chunk.Slab(loc.Above().Slab)
	if !ok {
		return func(coord.SlabPos) bool { return false }
	}
	above := aboveHandle.Read()
	return func(p coord.SlabPos) bool {
		b := above.At(coord.SlabPos{X: p.X, Y: p.Y, Z: 0})
		return b.Opaque()
	}
}

func (p *Pipeline) setProgress(loc coord.SlabLocation, prog world.Progress) {
	p.mu.Lock()
	p.progress[loc] = prog
	if prog == world.TerrainInFlight || prog == world.DiscoveryInFlight {
		// Restart the load-timeout clock on entering an in-flight state.
		p.requestedAt[loc] = nowOrZero()
	}
	p.mu.Unlock()
}

// BufferEdit records a block update that targets a slab not yet Navigable,
// for replay once the slab completes loading (spec.md §4.5's failure
// semantics paragraph).
func (p *Pipeline) BufferEdit(loc coord.SlabLocation, e world.Edit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffered[loc] = append(p.buffered[loc], e)
}

func (p *Pipeline) replayBuffered(loc coord.SlabLocation) {
	p.mu.Lock()
	edits := p.buffered[loc]
	delete(p.buffered, loc)
	p.mu.Unlock()
	if len(edits) == 0 {
		return
	}
	if _, err := p.store.SetMany(edits); err != nil {
		p.log.Warn("failed to replay buffered edits", "slab", loc.String(), "error", err)
	}
}
