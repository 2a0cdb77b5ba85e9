// Package store persists a planning.VelocityProfile run to disk and
// reads it back, the external "persistent file I/O" collaborator from
// the core's point of view: it only ever consumes the profile's
// planning points as read-only data.
package store

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"

	"pathplan.dev/planning"
	"pathplan.dev/robot"
	"pathplan.dev/wire"
)

var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Run is the persisted representation of a completed profile
// construction: the caller's original robot limits (stage 6's working
// acceleration reductions are internal to Build and don't appear here)
// and the resulting wire points.
type Run struct {
	Robot  robot.Robot  `cbor:"1,keyasint"`
	DS     float64      `cbor:"2,keyasint"`
	Points []wire.Point `cbor:"3,keyasint"`
}

// Encode serializes vp (built for vp.Robot() at the given ds) into CBOR.
func Encode(vp *planning.VelocityProfile, ds float64) ([]byte, error) {
	run := Run{
		Robot:  *vp.Robot(),
		DS:     ds,
		Points: wire.FromProfile(vp),
	}
	return encMode.Marshal(run)
}

// Save writes an encoded Run to path.
func Save(path string, vp *planning.VelocityProfile, ds float64) error {
	b, err := Encode(vp, ds)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if err := os.WriteFile(path, b, 0o640); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return nil
}

// Load reads back a Run previously written by Save.
func Load(path string) (*Run, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	var run Run
	if err := cbor.Unmarshal(b, &run); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", path, err)
	}
	return &run, nil
}
