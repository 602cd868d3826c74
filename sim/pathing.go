package sim

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/nn-sim/core/coord"
	"github.com/nn-sim/core/sim/entity"
	"github.com/nn-sim/core/world/nav"
)

// PathService issues spec.md §4.4 path requests on behalf of entity tasks
// and resolves them back into FollowPath/Arrived, the same correlation
// TaskContext.AwaitPath expects (§4.7's "Request a path and await arrival").
// The search itself runs off the tick thread on its own goroutine, since a
// hierarchical A* can run long; only the FollowPath write and the Arrived
// post are applied through QueueUpdate, so they land between ticks like any
// other world mutation (§4.6's queued-update rule) rather than racing a
// system mid-tick.
//
// Scope decision: Arrived fires as soon as the hierarchical search resolves
// (found a route, or failed), not once an entity has physically walked its
// FollowPath.Waypoints. No movement system exists in this module to drive
// that per-tick traversal; see DESIGN.md's path-service entry.
type PathService struct {
	pf    *nav.Pathfinder
	sched *Scheduler
	log   *slog.Logger

	mu       sync.Mutex
	inFlight map[entity.ID]chan struct{}
}

// NewPathService returns a PathService driving path searches against pf and
// applying their results through sched.
func NewPathService(pf *nav.Pathfinder, sched *Scheduler, log *slog.Logger) *PathService {
	if log == nil {
		log = slog.Default()
	}
	return &PathService{pf: pf, sched: sched, log: log, inFlight: make(map[entity.ID]chan struct{})}
}

// Request starts a path search for id from source towards goal at speed,
// returning the PathToken correlating it to the eventual Arrived event.
// Request never blocks; it supersedes (cancels) any path search already in
// flight for id, mirroring the entity task runtime's "replacing a task
// aborts the previous one" rule applied to path requests specifically.
func (s *PathService) Request(id entity.ID, source coord.BlockPos, goal nav.Goal, speed float32) entity.PathToken {
	token := entity.PathToken(uuid.New())
	cancel := make(chan struct{})

	s.mu.Lock()
	if prev, ok := s.inFlight[id]; ok {
		close(prev)
	}
	s.inFlight[id] = cancel
	s.mu.Unlock()

	s.sched.QueueUpdate(func(w *World) {
		w.FollowPaths.Set(id, entity.FollowPath{Token: token})
	})

	go s.run(id, token, nav.PathRequest{Source: source, Goal: goal, Speed: speed, Cancel: cancel}, cancel)
	return token
}

// Cancel aborts id's in-flight path search, if any, without posting an
// Arrived event. The scheduler does not call it when an entity dies:
// collectGarbage tears down the entity's task with Runtime.Cancel instead.
func (s *PathService) Cancel(id entity.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.inFlight[id]; ok {
		close(cancel)
		delete(s.inFlight, id)
	}
}

func (s *PathService) run(id entity.ID, token entity.PathToken, req nav.PathRequest, cancel chan struct{}) {
	path, err := s.pf.FindPath(req)

	s.mu.Lock()
	if s.inFlight[id] == cancel {
		delete(s.inFlight, id)
	}
	s.mu.Unlock()

	if err == nav.ErrAborted {
		return
	}

	s.sched.QueueUpdate(func(w *World) {
		current, ok := w.FollowPaths.Get(id)
		if !ok || current.Token != token {
			// Superseded by a newer request (or the entity is gone): this
			// result is stale and must not overwrite anything or post a
			// misleading event.
			return
		}
		if err != nil {
			w.FollowPaths.Remove(id)
			s.log.Debug("path search failed", "entity", id.String(), "error", err)
		} else {
			w.FollowPaths.Set(id, entity.FollowPath{Token: token, Waypoints: path})
		}

		if !w.Entities.IsAlive(id) {
			return
		}
		s.sched.PostEvent(entity.Event{
			Subject: id,
			Kind:    entity.EventArrived,
			Payload: entity.ArrivedPayload{Token: token, Ok: err == nil},
		})
	})
}
