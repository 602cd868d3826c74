package entity

// EventKind tags the closed set of event payloads from spec.md §3's Event
// definition.
type EventKind uint8

const (
	EventArrived EventKind = iota
	EventPickedUp
	EventEquipped
	EventBeenEaten
	EventPromotedToHerdLeader
	EventDestroyed
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case EventArrived:
		return "Arrived"
	case EventPickedUp:
		return "PickedUp"
	case EventEquipped:
		return "Equipped"
	case EventBeenEaten:
		return "BeenEaten"
	case EventPromotedToHerdLeader:
		return "PromotedToHerdLeader"
	case EventDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// Event is a tagged record posted against a subject entity, per spec.md §3.
// Payload carries the kind-specific data (e.g. ArrivedPayload for
// EventArrived); callers type-assert it once they've checked Kind.
type Event struct {
	Subject ID
	Kind    EventKind
	Payload any
}

// ArrivedPayload is EventArrived's payload: the path token that completed
// and whether it reached its destination or was cancelled/failed.
type ArrivedPayload struct {
	Token PathToken
	Ok    bool
}

// DestroyedPayload is EventDestroyed's payload.
type DestroyedPayload struct {
	Reason string
}

// BeenEatenPayload is EventBeenEaten's payload.
type BeenEatenPayload struct {
	Ok bool
}

// subscription is one subscriber's registration: a kind, optional subject
// scoping, and the channel it resumes on delivery.
type subscription struct {
	kind    EventKind
	subject ID // Nil means "any subject"
	resume  chan Event
}

// EventBus posts and dispatches Events, double-buffered so that events
// posted during tick T are only delivered at the very start of tick T+1
// (spec.md's ordering guarantee: "never in the same tick they were
// posted"), rather than visible to subscribers still running in tick T.
type EventBus struct {
	pending []Event // accumulates posts made during the current tick
	ready   []Event // swapped in from last tick's pending, dispatched now

	subs map[EventKind][]*subscription
}

// NewEventBus returns an empty EventBus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[EventKind][]*subscription)}
}

// Post queues an event for delivery at the start of the next tick.
func (b *EventBus) Post(e Event) {
	b.pending = append(b.pending, e)
}

// Subscribe registers a one-shot resume channel for kind, optionally scoped
// to subject, fired at most once then automatically removed.
func (b *EventBus) Subscribe(kind EventKind, subject ID) *Subscription {
	sub := &subscription{kind: kind, subject: subject, resume: make(chan Event, 1)}
	b.subs[kind] = append(b.subs[kind], sub)
	return &Subscription{bus: b, sub: sub}
}

func (b *EventBus) unsubscribe(sub *subscription) {
	list := b.subs[sub.kind]
	for i, s := range list {
		if s == sub {
			b.subs[sub.kind] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Dispatch swaps in last tick's pending posts and delivers each to matching
// subscribers. Called once per tick, after queued updates are consumed and
// before systems run (spec.md's ordering guarantee).
func (b *EventBus) Dispatch() {
	b.ready, b.pending = b.pending, b.ready[:0]
	for _, e := range b.ready {
		var fired []*subscription
		for _, sub := range b.subs[e.Kind] {
			if !sub.subject.IsNil() && sub.subject != e.Subject {
				continue
			}
			select {
			case sub.resume <- e:
				fired = append(fired, sub)
			default:
			}
		}
		for _, sub := range fired {
			b.unsubscribe(sub)
		}
	}
}

// Subscription is a handle to a pending EventBus registration, returned by
// Subscribe so a task's drop protocol can cancel an unfired wait.
type Subscription struct {
	bus *EventBus
	sub *subscription
}

// Resume returns the channel the subscriber receives on once the event
// fires; receives exactly once.
func (s *Subscription) Resume() <-chan Event { return s.sub.resume }

// Cancel removes the subscription if it hasn't already fired. Safe to call
// on an already-fired or already-cancelled subscription.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.bus.unsubscribe(s.sub)
}
