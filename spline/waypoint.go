package spline

import "pathplan.dev/vector2"

// Waypoint fixes a boundary condition for a spline segment: the curve
// must pass through Position with first derivative Velocity and second
// derivative Acceleration, with respect to the segment's local
// parameter. Waypoints are immutable once constructed.
type Waypoint struct {
	Position     vector2.Vector2
	Velocity     vector2.Vector2
	Acceleration vector2.Vector2
}

// NewWaypoint constructs a Waypoint from its three defining vectors.
func NewWaypoint(position, velocity, acceleration vector2.Vector2) Waypoint {
	return Waypoint{Position: position, Velocity: velocity, Acceleration: acceleration}
}

func (w Waypoint) finite() bool {
	return w.Position.Finite() && w.Velocity.Finite() && w.Acceleration.Finite()
}
