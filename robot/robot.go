// Package robot describes the differential-drive chassis the planning
// pipeline produces a motion plan for.
package robot

import (
	"errors"
	"math"
)

// Robot holds the kinematic limits and geometry of a differential-drive
// ground robot.
type Robot struct {
	// Width is the track gauge: the distance between the left and
	// right wheels.
	Width float64
	// MaxVelocity is the maximum linear speed of the robot's
	// centerline (and, equivalently, of its outer wheel in a turn).
	MaxVelocity float64
	// MaxAcceleration is the maximum linear acceleration of the
	// robot's centerline.
	MaxAcceleration float64
}

// New validates and constructs a Robot description.
func New(width, maxVelocity, maxAcceleration float64) (*Robot, error) {
	r := &Robot{Width: width, MaxVelocity: maxVelocity, MaxAcceleration: maxAcceleration}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate reports an error if any field is non-finite or non-positive.
func (r *Robot) Validate() error {
	switch {
	case !finite(r.Width) || r.Width <= 0:
		return errors.New("robot: width must be finite and positive")
	case !finite(r.MaxVelocity) || r.MaxVelocity <= 0:
		return errors.New("robot: max velocity must be finite and positive")
	case !finite(r.MaxAcceleration) || r.MaxAcceleration <= 0:
		return errors.New("robot: max acceleration must be finite and positive")
	}
	return nil
}

// Clone returns a defensive copy of r. The velocity profiler works on
// a clone's MaxAcceleration field so that the caller's Robot value is
// never mutated by profile construction.
func (r *Robot) Clone() *Robot {
	c := *r
	return &c
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
