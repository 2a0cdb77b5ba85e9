// Package link streams planning points to an external controller over
// a serial connection, the external "telemetry sink" collaborator.
package link

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"

	"github.com/tarm/serial"

	"pathplan.dev/planning"
)

// recordSize is the length in bytes of one streamed sample: external
// time, heading, left velocity, right velocity, each a float64.
const recordSize = 4 * 8

// Open opens a serial connection to dev at baud. If dev is empty, it
// tries the platform's usual default device names in order.
func Open(dev string, baud int) (io.ReadWriteCloser, error) {
	var devices []string
	if dev != "" {
		devices = append(devices, dev)
	} else {
		switch runtime.GOOS {
		case "windows":
			devices = append(devices, "COM3", "COM4")
		case "linux":
			devices = append(devices, "/dev/ttyUSB0", "/dev/ttyACM0")
		default:
			devices = append(devices, "/dev/tty.usbserial")
		}
	}
	if len(devices) == 0 {
		return nil, errors.New("link: no device specified")
	}
	var firstErr error
	for _, d := range devices {
		c := &serial.Config{Name: d, Baud: baud}
		s, err := serial.OpenPort(c)
		if err == nil {
			return s, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("link: open %v: %w", devices, firstErr)
}

// Stream writes every planning point of vp to w as a sequence of fixed
// size big-endian records, buffered 64 records at a time and flushed
// at the end.
func Stream(w io.Writer, vp *planning.VelocityProfile) error {
	bufw := bufio.NewWriterSize(w, recordSize*64)
	var rec [recordSize]byte
	for _, p := range vp.Points() {
		binary.BigEndian.PutUint64(rec[0:8], math.Float64bits(p.ExternalTime))
		binary.BigEndian.PutUint64(rec[8:16], math.Float64bits(p.Heading))
		binary.BigEndian.PutUint64(rec[16:24], math.Float64bits(p.LeftVelocity))
		binary.BigEndian.PutUint64(rec[24:32], math.Float64bits(p.RightVelocity))
		if _, err := bufw.Write(rec[:]); err != nil {
			return fmt.Errorf("link: write sample: %w", err)
		}
	}
	if err := bufw.Flush(); err != nil {
		return fmt.Errorf("link: flush: %w", err)
	}
	return nil
}
