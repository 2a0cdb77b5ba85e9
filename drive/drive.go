// Package drive actuates a VelocityProfile on a differential-drive
// chassis wired to GPIO/PWM pins, the external "motor controller"
// collaborator. It is new relative to the planning pipeline it
// consumes: nothing upstream depends on it, and it only reads
// planning.PlanningPoint values.
package drive

import (
	"context"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"pathplan.dev/planning"
)

// Motor drives a single wheel at the given signed linear velocity, in
// meters per second; negative reverses direction.
type Motor interface {
	SetVelocity(v float64) error
}

// PWMMotor drives a wheel through a direction pin and a PWM speed pin,
// the pattern used for GPIO actuation throughout the host's driver
// packages.
type PWMMotor struct {
	Dir   gpio.PinOut
	Speed gpio.PinOut
	// MaxVelocity maps to a 100% PWM duty cycle.
	MaxVelocity float64
	// Freq is the PWM switching frequency.
	Freq physic.Frequency
}

// SetVelocity implements Motor.
func (m *PWMMotor) SetVelocity(v float64) error {
	forward := v >= 0
	if v < 0 {
		v = -v
	}
	if m.MaxVelocity <= 0 {
		return fmt.Errorf("drive: motor max velocity must be positive")
	}
	duty := gpio.Duty(v / m.MaxVelocity * float64(gpio.DutyMax))
	if duty > gpio.DutyMax {
		duty = gpio.DutyMax
	}
	level := gpio.High
	if !forward {
		level = gpio.Low
	}
	if err := m.Dir.Out(level); err != nil {
		return fmt.Errorf("drive: set direction: %w", err)
	}
	if err := m.Speed.PWM(duty, m.Freq); err != nil {
		return fmt.Errorf("drive: set speed: %w", err)
	}
	return nil
}

// Init initializes the periph.io host drivers. It must be called once
// before constructing a Differential backed by real GPIO pins.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("drive: init: %w", err)
	}
	return nil
}

// Differential actuates a velocity profile on a left/right motor pair.
type Differential struct {
	Left, Right Motor
}

// Run streams vp's planning points to the left and right motors in
// real time, sleeping between samples according to each point's
// ExternalTime, and calls Stop after the last point. If ctx is
// canceled it returns ctx.Err() without calling Stop, leaving the
// motors at their last commanded velocity.
func (d *Differential) Run(ctx context.Context, vp *planning.VelocityProfile) error {
	points := vp.Points()
	if len(points) == 0 {
		return nil
	}
	start := time.Now()
	for _, p := range points {
		target := start.Add(time.Duration(p.ExternalTime * float64(time.Second)))
		if wait := time.Until(target); wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				log.Printf("drive: canceled at t=%g", p.ExternalTime)
				return ctx.Err()
			}
		}
		if err := d.Left.SetVelocity(p.LeftVelocity); err != nil {
			log.Printf("drive: left motor at t=%g: %v", p.ExternalTime, err)
			return fmt.Errorf("drive: left motor at t=%g: %w", p.ExternalTime, err)
		}
		if err := d.Right.SetVelocity(p.RightVelocity); err != nil {
			log.Printf("drive: right motor at t=%g: %v", p.ExternalTime, err)
			return fmt.Errorf("drive: right motor at t=%g: %w", p.ExternalTime, err)
		}
	}
	return d.Stop()
}

// Stop brings both wheels to a stop.
func (d *Differential) Stop() error {
	if err := d.Left.SetVelocity(0); err != nil {
		return err
	}
	return d.Right.SetVelocity(0)
}
