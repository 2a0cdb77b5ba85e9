// Package wire implements the serialized form of a velocity profile
// consumed by external plotting and persistence tools. It is a thin,
// read-only view over planning.VelocityProfile: the JSON encoder never
// mutates the profile it serializes.
package wire

import (
	"encoding/json"

	"pathplan.dev/planning"
)

// Point is the wire representation of a single planning point. The
// field name "left velcoity" preserves a misspelling from the existing
// wire format; reimplementations must keep it for byte-compatible
// output.
type Point struct {
	Time          float64 `json:"time"`
	Heading       float64 `json:"heading"`
	LeftVelocity  float64 `json:"left velcoity"`
	RightVelocity float64 `json:"right velocity"`
}

// FromProfile converts a VelocityProfile into its wire representation.
func FromProfile(vp *planning.VelocityProfile) []Point {
	points := vp.Points()
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{
			Time:          p.ExternalTime,
			Heading:       p.Heading,
			LeftVelocity:  p.LeftVelocity,
			RightVelocity: p.RightVelocity,
		}
	}
	return out
}

// Encode marshals a VelocityProfile to its wire JSON form.
func Encode(vp *planning.VelocityProfile) ([]byte, error) {
	return json.Marshal(FromProfile(vp))
}
