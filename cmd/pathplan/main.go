// command pathplan builds a velocity profile from a list of waypoints
// and writes it out as wire JSON, CBOR, and an optional PNG preview.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/signal"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3/bcm283x"

	"pathplan.dev/drive"
	"pathplan.dev/drive/link"
	"pathplan.dev/path"
	"pathplan.dev/planning"
	"pathplan.dev/render"
	"pathplan.dev/robot"
	"pathplan.dev/spline"
	"pathplan.dev/store"
	"pathplan.dev/vector2"
	"pathplan.dev/wire"
)

// defaultMotors wires the left and right drive motors to a fixed set
// of Raspberry Pi GPIO pins, matching the direct bcm283x pin references
// used throughout the host's GPIO drivers.
func defaultMotors() (left, right *drive.PWMMotor, err error) {
	const pwmFreq = 20 * physic.KiloHertz
	left = &drive.PWMMotor{
		Dir:         bcm283x.GPIO5,
		Speed:       bcm283x.GPIO6,
		MaxVelocity: *maxVelocity,
		Freq:        pwmFreq,
	}
	right = &drive.PWMMotor{
		Dir:         bcm283x.GPIO19,
		Speed:       bcm283x.GPIO26,
		MaxVelocity: *maxVelocity,
		Freq:        pwmFreq,
	}
	return left, right, nil
}

var (
	waypointsFile = flag.String("waypoints", "", "JSON file of waypoints")
	output        = flag.String("o", "plan", "output file prefix")
	ds            = flag.Float64("ds", 0.02, "arc-length resampling step, in meters")
	width         = flag.Float64("width", 0.3, "robot track width, in meters")
	maxVelocity   = flag.Float64("max-velocity", 1.0, "max linear velocity, in m/s")
	maxAccel      = flag.Float64("max-accel", 1.0, "max linear acceleration, in m/s^2")
	preview       = flag.Bool("preview", false, "write a PNG preview alongside the output")
	serialDev     = flag.String("device", "", "serial device to stream telemetry to, if set")
	progress      = flag.Bool("progress", false, "print resampling progress to stderr")
	driveHardware = flag.Bool("drive", false, "actuate the plan on GPIO-connected motors")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type waypointJSON struct {
	Position     [2]float64 `json:"position"`
	Velocity     [2]float64 `json:"velocity"`
	Acceleration [2]float64 `json:"acceleration"`
}

func loadWaypoints(file string) ([]spline.Waypoint, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read waypoints: %w", err)
	}
	var raw []waypointJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse waypoints: %w", err)
	}
	out := make([]spline.Waypoint, len(raw))
	for i, w := range raw {
		out[i] = spline.NewWaypoint(
			vector2.Pt(w.Position[0], w.Position[1]),
			vector2.Pt(w.Velocity[0], w.Velocity[1]),
			vector2.Pt(w.Acceleration[0], w.Acceleration[1]),
		)
	}
	return out, nil
}

func run() error {
	if *waypointsFile == "" {
		return errors.New("specify -waypoints")
	}
	waypoints, err := loadWaypoints(*waypointsFile)
	if err != nil {
		return err
	}

	p, err := path.FromWaypoints(waypoints)
	if err != nil {
		return fmt.Errorf("build path: %w", err)
	}
	r, err := robot.New(*width, *maxVelocity, *maxAccel)
	if err != nil {
		return fmt.Errorf("build robot: %w", err)
	}

	var opts *planning.Options
	if *progress {
		lastPct := -1
		opts = &planning.Options{Progress: func(done, total int) {
			pct := 100 * done / total
			if pct == lastPct {
				return
			}
			lastPct = pct
			log.Printf("pathplan: resampling %d%%", pct)
		}}
	}
	vp, err := planning.Build(p, r, *ds, opts)
	if err != nil {
		return fmt.Errorf("build profile: %w", err)
	}

	wireJSON, err := wire.Encode(vp)
	if err != nil {
		return fmt.Errorf("encode wire json: %w", err)
	}
	if err := os.WriteFile(*output+".json", wireJSON, 0o640); err != nil {
		return fmt.Errorf("write wire json: %w", err)
	}
	if err := store.Save(*output+".cbor", vp, *ds); err != nil {
		return err
	}

	if *preview {
		diagrams := []struct {
			suffix string
			img    image.Image
		}{
			{"", render.Profile(vp, nil)},
			{"-velocity", render.Velocity(vp, nil)},
			{"-wheels", render.WheelVelocity(vp, nil)},
		}
		for _, d := range diagrams {
			if err := writePNGFile(*output+d.suffix+".png", d.img); err != nil {
				return fmt.Errorf("write preview: %w", err)
			}
		}
	}

	if *serialDev != "" {
		conn, err := link.Open(*serialDev, 115200)
		if err != nil {
			return fmt.Errorf("open telemetry link: %w", err)
		}
		defer conn.Close()
		if err := link.Stream(conn, vp); err != nil {
			return err
		}
	}

	if *driveHardware {
		if err := driveProfile(vp); err != nil {
			return err
		}
	}

	return nil
}

func writePNGFile(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func driveProfile(vp *planning.VelocityProfile) error {
	if err := drive.Init(); err != nil {
		return err
	}
	left, right, err := defaultMotors()
	if err != nil {
		return err
	}
	d := &drive.Differential{Left: left, Right: right}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		cancel()
	}()
	defer signal.Stop(sig)

	if err := d.Run(ctx, vp); err != nil {
		if stopErr := d.Stop(); stopErr != nil {
			return fmt.Errorf("%w (and stop failed: %v)", err, stopErr)
		}
		return err
	}
	return nil
}
