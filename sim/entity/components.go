package entity

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/nn-sim/core/world/nav"
)

// Transform is an entity's position and facing, per spec.md §3's component
// list. Render frames interpolate between the last two ticks' Transform
// values (§4.6); Prev holds the value from the previous tick for that
// purpose.
type Transform struct {
	Pos    mgl32.Vec3
	Facing float32 // radians, yaw only
	Prev   mgl32.Vec3
}

// Physics holds an entity's velocity and a reference to its collider shape.
// ColliderRadius models every entity as a vertical capsule of this radius,
// matching the coarse collision model the teacher's entity physics uses for
// non-player entities.
type Physics struct {
	Velocity       mgl32.Vec3
	ColliderRadius float32
	Grounded       bool
}

// PathToken correlates a FollowPath component with the Arrived event that
// eventually resolves it. uuid.UUID is used here (not EntityID)
// since tokens must remain comparable after the issuing entity dies, per
// DESIGN.md's IDs decision.
type PathToken uuid.UUID

// NilPathToken is the zero PathToken, used to mean "no path in flight".
var NilPathToken PathToken

// FollowPath is the current navigation order for an entity: a token
// correlating it to its eventual Arrived event, and the remaining waypoints
// of a hierarchical path (§4.3/§4.4's BlockPath/AreaPath stitched together).
type FollowPath struct {
	Token     PathToken
	Waypoints []nav.BlockStep
	Cursor    int
}

// Active reports whether a path search or traversal is currently underway.
func (f FollowPath) Active() bool { return f.Token != NilPathToken }

// Remaining returns the waypoints not yet reached.
func (f FollowPath) Remaining() []nav.BlockStep {
	if f.Cursor >= len(f.Waypoints) {
		return nil
	}
	return f.Waypoints[f.Cursor:]
}

// Steering is the steering system's output: a desired direction and speed
// for the movement system to integrate into Physics.Velocity next tick.
type Steering struct {
	Desired mgl32.Vec3
	Speed   float32
}

// Hunger tracks an entity's satiation, counting down between feeding
// events.
type Hunger struct {
	Value    float32 // 0 (starving) .. 1 (sated)
	DecayPer float32 // consumed per tick
}

// Starving reports whether hunger has bottomed out.
func (h Hunger) Starving() bool { return h.Value <= 0 }

// ItemStack is one slot of an Inventory.
type ItemStack struct {
	Kind  string
	Count uint16
}

// Inventory is a fixed-capacity slot array of carried items.
type Inventory struct {
	Slots []ItemStack
}

// Add places count of kind into the first slot already holding kind, or a
// free slot if none does; returns false if the inventory is full.
func (inv *Inventory) Add(kind string, count uint16) bool {
	for i := range inv.Slots {
		if inv.Slots[i].Kind == kind {
			inv.Slots[i].Count += count
			return true
		}
	}
	for i := range inv.Slots {
		if inv.Slots[i].Count == 0 {
			inv.Slots[i] = ItemStack{Kind: kind, Count: count}
			return true
		}
	}
	return false
}

// Status is an observable activity label, surfaced by the entity task
// runtime's Update-status suspension point (§4.7).
type Status struct {
	Label    string
	Exertion float32
}

// Herd marks an entity as belonging to a herd, tracking its leader and
// whether it is currently the leader itself.
type Herd struct {
	Leader   ID
	IsLeader bool
	Radius   float32
}
