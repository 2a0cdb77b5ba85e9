package store

import (
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"pathplan.dev/path"
	"pathplan.dev/planning"
	"pathplan.dev/robot"
	"pathplan.dev/spline"
	"pathplan.dev/vector2"
)

func buildProfile(t *testing.T) (*planning.VelocityProfile, float64) {
	t.Helper()
	wp := []spline.Waypoint{
		spline.NewWaypoint(vector2.Pt(0, 0), vector2.Pt(1, 0), vector2.Pt(0, 0)),
		spline.NewWaypoint(vector2.Pt(5, 0), vector2.Pt(1, 0), vector2.Pt(0, 0)),
	}
	p, err := path.FromWaypoints(wp)
	if err != nil {
		t.Fatalf("path.FromWaypoints: %v", err)
	}
	r, err := robot.New(0.3, 1.5, 0.8)
	if err != nil {
		t.Fatalf("robot.New: %v", err)
	}
	const ds = 0.2
	vp, err := planning.Build(p, r, ds, nil)
	if err != nil {
		t.Fatalf("planning.Build: %v", err)
	}
	return vp, ds
}

func TestEncodeDecode(t *testing.T) {
	vp, ds := buildProfile(t)
	b, err := Encode(vp, ds)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var run Run
	if err := cbor.Unmarshal(b, &run); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if run.DS != ds {
		t.Errorf("DS = %v, want %v", run.DS, ds)
	}
	if got, want := len(run.Points), len(vp.Points()); got != want {
		t.Errorf("len(Points) = %d, want %d", got, want)
	}
	if run.Robot != *vp.Robot() {
		t.Errorf("Robot = %+v, want %+v", run.Robot, *vp.Robot())
	}
}

func TestSaveLoad(t *testing.T) {
	vp, ds := buildProfile(t)
	dir := t.TempDir()
	p := filepath.Join(dir, "run.cbor")
	if err := Save(p, vp, ds); err != nil {
		t.Fatalf("Save: %v", err)
	}
	run, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if run.DS != ds {
		t.Errorf("DS = %v, want %v", run.DS, ds)
	}
	if len(run.Points) != len(vp.Points()) {
		t.Errorf("len(Points) = %d, want %d", len(run.Points), len(vp.Points()))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.cbor")); err == nil {
		t.Fatal("expected error loading a missing file")
	}
}
