// Package sim implements the fixed-rate tick scheduler of spec.md §4.6:
// ordered system dispatch over component storages, a QueuedUpdates channel
// of closures run with exclusive access between systems, an event bus
// delivered one tick after posting, and the entity task runtime's
// once-per-tick poll. Grounded on the teacher's server/world/tick.go
// (ticker.tickLoop's fixed-interval ticker with TPS sampling/warning) and
// server/world/world.go's Exec/Tx transaction queue, reused here as the
// QueuedUpdates mechanism.
package sim

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nn-sim/core/sim/entity"
)

const (
	tickRate            = 20
	TickInterval        = time.Second / tickRate
	tpsSampleSize       = 20
	tpsWarningThreshold = 19.0
)

// System is one ordered step of a tick, run with exclusive World access.
// Systems communicate only through component storages and QueuedUpdates,
// never by calling one another directly (spec.md §4.6).
type System interface {
	Name() string
	Tick(w *World)
}

// Scheduler runs World through fixed-rate ticks, per spec.md §4.6/§4.7.
type Scheduler struct {
	world   *World
	bus     *entity.EventBus
	runtime *entity.Runtime
	log     *slog.Logger

	systems []System
	updates chan func(*World)

	deathMu       sync.Mutex
	pendingDeaths map[entity.ID]struct{}

	startDelay int64
	tick       int64
	tps        atomic.Uint64

	closing chan struct{}
	done    chan struct{}
}

// NewScheduler constructs a Scheduler over world, ready to run once systems
// are registered with Register. startDelayTicks defers the first system run
// by that many ticks (spec.md §6's simulation.start_delay), during which
// only queued updates and events are processed.
func NewScheduler(world *World, bus *entity.EventBus, runtime *entity.Runtime, log *slog.Logger, startDelayTicks int64) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		world:         world,
		bus:           bus,
		runtime:       runtime,
		log:           log,
		updates:       make(chan func(*World), 1024),
		pendingDeaths: make(map[entity.ID]struct{}),
		startDelay:    startDelayTicks,
		closing:       make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Register appends a system to the fixed tick order. Must be called before
// Run.
func (s *Scheduler) Register(sys System) {
	s.systems = append(s.systems, sys)
}

// QueueUpdate enqueues a closure to run with exclusive World access at the
// start of the next tick it's processed, before any system runs. Updates
// apply in submission order (spec.md's ordering guarantee).
func (s *Scheduler) QueueUpdate(f func(*World)) {
	select {
	case s.updates <- f:
	default:
		// Overflow: run it at the very next opportunity from a dedicated
		// goroutine rather than blocking the caller, mirroring the
		// loader's Request back-pressure handling.
		go func() { s.updates <- f }()
	}
}

// PostEvent posts e for delivery at the start of the next tick.
func (s *Scheduler) PostEvent(e entity.Event) { s.bus.Post(e) }

// Kill marks id dead: a system decides an entity should die and calls this
// instead of touching storages directly. Per spec.md §3 ("marked dead via a
// queued update and reaped at tick end"), the mark itself is applied as an
// ordinary queued update (so it's ordered with any other update a system
// submitted this tick), and the actual reap — removing every component and
// freeing the allocator slot — happens in collectGarbage at the end of the
// same tick that update applied in.
func (s *Scheduler) Kill(id entity.ID) {
	s.QueueUpdate(func(*World) {
		s.deathMu.Lock()
		s.pendingDeaths[id] = struct{}{}
		s.deathMu.Unlock()
	})
}

// World returns the Scheduler's underlying component storages. Only safe to
// read/write directly from within a queued update or a system's Tick.
func (s *Scheduler) World() *World { return s.world }

// Runtime returns the entity task runtime driven once per tick.
func (s *Scheduler) Runtime() *entity.Runtime { return s.runtime }

// CurrentTick returns the number of ticks completed so far.
func (s *Scheduler) CurrentTick() int64 { return s.tick }

// TPS returns the average ticks-per-second over the last tpsSampleSize
// ticks, or 0 before the first full sample window.
func (s *Scheduler) TPS() float64 { return math.Float64frombits(s.tps.Load()) }

// Run drives the tick loop at TickInterval until Stop is called. It blocks
// the calling goroutine; typically run via `go scheduler.Run()`.
func (s *Scheduler) Run() {
	defer close(s.done)
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	var (
		lastTick    time.Time = time.Now()
		durationSum time.Duration
		ticksCount  int
		warned      bool
	)
	for {
		select {
		case <-s.closing:
			return
		case now := <-ticker.C:
			duration := now.Sub(lastTick)
			lastTick = now
			if duration > 0 {
				durationSum += duration
				ticksCount++
				if ticksCount >= tpsSampleSize {
					avg := durationSum / time.Duration(ticksCount)
					if avg > 0 {
						tps := 1.0 / avg.Seconds()
						s.tps.Store(math.Float64bits(tps))
						if tps < tpsWarningThreshold {
							if !warned {
								s.log.Warn("tick rate dropped below threshold", "tps", tps)
								warned = true
							}
						} else {
							warned = false
						}
					}
					durationSum, ticksCount = 0, 0
				}
			}
			s.step()
		}
	}
}

// Stop halts Run and waits for the in-progress tick, if any, to finish.
func (s *Scheduler) Stop() {
	close(s.closing)
	<-s.done
}

// step performs one full tick: consume updates, dispatch due events, run
// systems (after the configured start delay), advance tasks, and garbage
// collect. Exposed as a method (rather than inlined in Run) so tests can
// drive ticks synchronously without a real clock.
func (s *Scheduler) step() {
	s.drainUpdates()
	s.bus.Dispatch()

	if s.tick >= s.startDelay {
		for _, sys := range s.systems {
			sys.Tick(s.world)
		}
	}

	s.runtime.Tick()
	s.collectGarbage()

	s.tick++
}

func (s *Scheduler) drainUpdates() {
	for {
		select {
		case f := <-s.updates:
			f(s.world)
		default:
			return
		}
	}
}

// collectGarbage is step 5 of spec.md §4.6: reap every entity marked dead
// (via Kill) since the last collection, removing it from every storage and
// freeing its allocator slot for reuse. Runtime.Cancel runs first so a dead
// entity's suspended task (e.g. one awaiting a path's Arrived event, per
// spec.md §8 scenario S6) is torn down and unsubscribed before the entity
// disappears, rather than left dangling on a bus subscription nothing will
// ever resolve.
func (s *Scheduler) collectGarbage() {
	s.deathMu.Lock()
	deaths := s.pendingDeaths
	s.pendingDeaths = make(map[entity.ID]struct{})
	s.deathMu.Unlock()

	for id := range deaths {
		s.runtime.Cancel(id)
		s.world.Kill(id)
	}
}
