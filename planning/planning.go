// Package planning implements the two-pass velocity profiler: it
// resamples a path at a fixed arc-length step, enforces
// curvature-limited speed and symmetric acceleration constraints, and
// derives per-wheel trajectories consistent with the robot's
// acceleration ceiling.
package planning

import (
	"errors"
	"fmt"
	"math"

	"pathplan.dev/path"
	"pathplan.dev/robot"
	"pathplan.dev/vector2"
)

// PlanningPoint is one discretized sample of the motion plan. Fields
// are populated in stages by Build; reading a field before its
// populating stage has run yields its zero value, not an error.
type PlanningPoint struct {
	// Position is the point's location on the path.
	Position vector2.Vector2
	// InternalTime is the path parameter t in [0,1] this sample was
	// taken at.
	InternalTime float64
	// Radius is the signed radius of curvature at this sample
	// (+Inf for a straight line).
	Radius float64
	// Distance is the arc length from the previous sample to this
	// one (0 for the first sample).
	Distance float64
	// Heading is the unsigned orientation angle in [0, pi].
	Heading float64

	// MaxVelocity is the curvature-limited speed bound (stage 1).
	MaxVelocity float64
	// ActualVelocity is the chosen speed after the forward/reverse
	// sweeps (stage 2/3).
	ActualVelocity float64
	// ExternalTime is the wall-clock-like timestamp from path start
	// (stage 4).
	ExternalTime float64
	// LeftVelocity and RightVelocity are the per-wheel linear speeds
	// (stage 5).
	LeftVelocity, RightVelocity float64
}

// VelocityProfile is an ordered sequence of PlanningPoints, immutable
// after construction, plus the total elapsed time of the plan.
type VelocityProfile struct {
	path      *path.Path
	robot     *robot.Robot
	points    []PlanningPoint
	totalTime float64
}

// Points returns the profile's planning points in order.
func (vp *VelocityProfile) Points() []PlanningPoint {
	return vp.points
}

// TotalTime returns the timestamp of the last point.
func (vp *VelocityProfile) TotalTime() float64 {
	return vp.totalTime
}

// Path returns the path this profile was built from.
func (vp *VelocityProfile) Path() *path.Path {
	return vp.path
}

// Robot returns the (unmutated) robot description this profile was
// built for.
func (vp *VelocityProfile) Robot() *robot.Robot {
	return vp.robot
}

// maxWheelAccelIterations bounds the stage 6 outer consistency loop.
const maxWheelAccelIterations = 64

// wheelAccelReductionFactor is the fraction the working acceleration
// ceiling is multiplied by each time stage 6 finds it violated.
const wheelAccelReductionFactor = 3.0 / 4.0

// Options configures an optional progress callback invoked during
// stage 0 resampling, letting a caller display progress (a terminal
// bar, a GUI widget, or nothing) without Build hardcoding any of it.
type Options struct {
	// Progress, if non-nil, is called after each planning point is
	// resampled with the number done so far and (an estimate of) the
	// total.
	Progress func(done, total int)
}

// Build constructs a VelocityProfile for p and r, resampled every ds
// of arc length. r is never mutated; Build works on a defensive copy.
func Build(p *path.Path, r *robot.Robot, ds float64, opts *Options) (*VelocityProfile, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if !finite(ds) || ds <= 0 {
		return nil, errors.New("planning: ds must be finite and positive")
	}
	var progress func(int, int)
	if opts != nil {
		progress = opts.Progress
	}

	points, err := resample(p, ds, progress)
	if err != nil {
		return nil, err
	}
	computeMaxVelocities(points, r)

	working := r.Clone()
	for iteration := 0; ; iteration++ {
		if iteration >= maxWheelAccelIterations {
			return nil, fmt.Errorf("planning: convergence-failure: wheel acceleration did not settle within %d iterations", maxWheelAccelIterations)
		}
		forwardSweep(points, working.MaxAcceleration, 0)
		reverseSweep(points, working.MaxAcceleration, 0)
		if err := timestamp(points); err != nil {
			return nil, err
		}
		wheelSpeeds(points, r.Width)

		measured := maxWheelAcceleration(points)
		if measured <= working.MaxAcceleration {
			break
		}
		working.MaxAcceleration *= wheelAccelReductionFactor
	}

	return &VelocityProfile{
		path:      p,
		robot:     r,
		points:    points,
		totalTime: points[len(points)-1].ExternalTime,
	}, nil
}

// resample is stage 0: it samples the path every ds of arc length and
// fills in the purely geometric fields of each PlanningPoint.
func resample(p *path.Path, ds float64, progress func(done, total int)) ([]PlanningPoint, error) {
	estimate := int(math.Ceil(p.TotalLength()/ds)) + 1
	points := make([]PlanningPoint, 0, estimate)
	lastT := 0.0
	for t := range p.PlanningTimes(ds) {
		heading, err := p.Heading(t)
		if err != nil {
			return nil, fmt.Errorf("planning: numerical degeneracy at t=%g: %w", t, err)
		}
		dist := 0.0
		if len(points) > 0 {
			dist = p.Length(lastT, t)
		}
		points = append(points, PlanningPoint{
			Position:     p.Eval(t),
			InternalTime: t,
			Radius:       p.CurvatureRadius(t),
			Distance:     dist,
			Heading:      heading,
		})
		lastT = t
		if progress != nil {
			progress(len(points), estimate)
		}
	}
	return points, nil
}

// computeMaxVelocities is stage 1: curvature-limited speed bound.
// The branches bound the outer wheel to the robot's max speed.
func computeMaxVelocities(points []PlanningPoint, r *robot.Robot) {
	for i := range points {
		radius := points[i].Radius
		var v float64
		switch {
		case radius == 0 || math.IsInf(radius, 0):
			v = r.MaxVelocity
		case radius > 0:
			v = radius * r.MaxVelocity / (radius + r.Width/2)
		default:
			v = radius * r.MaxVelocity / (radius - r.Width/2)
		}
		points[i].MaxVelocity = v
	}
}

// forwardSweep is stage 2: each point's speed must be reachable from
// the previous point under aMax across the arc-length gap.
func forwardSweep(points []PlanningPoint, aMax, v0 float64) {
	last := v0
	for i := range points {
		if i == 0 {
			points[i].ActualVelocity = math.Min(v0, points[i].MaxVelocity)
		} else {
			obtainable := math.Sqrt(last*last + 2*aMax*points[i].Distance)
			points[i].ActualVelocity = math.Min(points[i].MaxVelocity, obtainable)
		}
		last = points[i].ActualVelocity
	}
}

// reverseSweep is stage 3: each point's speed must also be reachable
// from the following point under aMax. lastDistance is the arc length
// from the current point to the one after it, not the current point's
// own Distance field (which holds the gap from the previous point).
func reverseSweep(points []PlanningPoint, aMax, vn float64) {
	last := vn
	var lastDistance float64
	for i := len(points) - 1; i >= 0; i-- {
		if i == len(points)-1 {
			points[i].ActualVelocity = math.Min(vn, points[i].ActualVelocity)
		} else {
			obtainable := math.Sqrt(last*last + 2*aMax*lastDistance)
			points[i].ActualVelocity = math.Min(points[i].ActualVelocity, obtainable)
		}
		lastDistance = points[i].Distance
		last = points[i].ActualVelocity
	}
}

// timestamp is stage 4: trapezoidal time for constant-acceleration
// motion over each arc-length step.
func timestamp(points []PlanningPoint) error {
	points[0].ExternalTime = 0
	for i := 1; i < len(points); i++ {
		denom := points[i].ActualVelocity + points[i-1].ActualVelocity
		if denom == 0 {
			if points[i].Distance > 0 {
				return fmt.Errorf("planning: path-infeasible: zero velocity sum with nonzero distance at sample %d", i)
			}
			points[i].ExternalTime = points[i-1].ExternalTime
			continue
		}
		dt := 2 * points[i].Distance / denom
		points[i].ExternalTime = points[i-1].ExternalTime + dt
	}
	return nil
}

// wheelSpeeds is stage 5: per-wheel linear speeds from the centerline
// speed and signed curvature radius.
func wheelSpeeds(points []PlanningPoint, width float64) {
	for i := range points {
		v := points[i].ActualVelocity
		r := points[i].Radius
		if r == 0 || math.IsInf(r, 0) {
			points[i].LeftVelocity = v
			points[i].RightVelocity = v
			continue
		}
		points[i].RightVelocity = v * (r + width/2) / r
		points[i].LeftVelocity = v * (r - width/2) / r
	}
}

// maxWheelAcceleration is stage 6's measurement step: the maximum
// achieved per-wheel acceleration across all consecutive samples.
func maxWheelAcceleration(points []PlanningPoint) float64 {
	max := 0.0
	for i := 1; i < len(points); i++ {
		dt := points[i].ExternalTime - points[i-1].ExternalTime
		if dt <= 0 {
			continue
		}
		left := math.Abs(points[i].LeftVelocity-points[i-1].LeftVelocity) / dt
		right := math.Abs(points[i].RightVelocity-points[i-1].RightVelocity) / dt
		max = math.Max(max, math.Max(left, right))
	}
	return max
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
