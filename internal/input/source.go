// Package input confirms a touchpad is present via evdev,
// then spawns and parses "libinput debug-events" to produce a stream of
// typed gesture events.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/bnema/gesturesd/internal/gesture"
	"github.com/bnema/gesturesd/internal/logger"
	"github.com/gvalkov/golang-evdev"
)

// Source owns the libinput debug-events subprocess and yields a channel of
// decoded gesture events.
type Source struct {
	cmd    *exec.Cmd
	events chan gesture.Event

	closeOnce sync.Once
	done      chan struct{}
}

// Open confirms a touchpad exists on the system (matching deviceSelector by
// substring against the device name if non-empty) and starts the
// libinput debug-events subprocess. Failure to confirm a device or start
// the subprocess is fatal at startup.
func Open(deviceSelector string) (*Source, error) {
	if err := confirmTouchpad(deviceSelector); err != nil {
		return nil, fmt.Errorf("confirming touchpad device: %w", err)
	}

	if _, err := exec.LookPath("libinput"); err != nil {
		return nil, fmt.Errorf("libinput binary not found in PATH: %w", err)
	}

	cmd := exec.Command("libinput", "debug-events")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating libinput stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting libinput debug-events: %w", err)
	}

	s := &Source{
		cmd:    cmd,
		events: make(chan gesture.Event, 32),
		done:   make(chan struct{}),
	}
	go s.readLoop(stdout)
	return s, nil
}

// Events returns the channel gesture events are delivered on. It is closed
// when the source shuts down.
func (s *Source) Events() <-chan gesture.Event {
	return s.events
}

// Close stops the libinput subprocess and the read loop.
func (s *Source) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		if s.cmd.Process != nil {
			err = s.cmd.Process.Kill()
		}
	})
	return err
}

// readLoop decodes libinput output until it ends or Close is called. A read
// error is logged and ends the loop: libinput is not restarted, and the
// events channel is closed.
func (s *Source) readLoop(stdout io.Reader) {
	defer close(s.events)

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		select {
		case <-s.done:
			return
		default:
		}

		line := scanner.Text()
		ev, ok := parseLine(line)
		if !ok {
			continue
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warnf("input source: error reading libinput output: %v", err)
	}
	if err := s.cmd.Wait(); err != nil {
		logger.Warnf("input source: libinput debug-events exited: %v", err)
	}
}

// confirmTouchpad verifies at least one input device with multitouch
// absolute axes exists, optionally narrowed to devices whose name contains
// selector. "auto" and "" both mean no name filter — just find any
// touchpad. This only confirms presence; libinput debug-events is the
// actual event source.
func confirmTouchpad(selector string) error {
	devices, err := evdev.ListInputDevices("/dev/input/event*")
	if err != nil {
		return fmt.Errorf("listing input devices: %w", err)
	}

	filter := strings.ToLower(selector)
	unfiltered := filter == "" || filter == "auto"

	for _, dev := range devices {
		if !unfiltered && !strings.Contains(strings.ToLower(dev.Name), filter) {
			continue
		}
		if isTouchpad(dev) {
			logger.Infof("confirmed touchpad device: %s (%s)", dev.Name, dev.Fn)
			return nil
		}
	}
	return fmt.Errorf("no touchpad device found (selector=%q)", selector)
}

func isTouchpad(dev *evdev.InputDevice) bool {
	if dev.CapabilitiesFlat == nil {
		return false
	}
	absAxes, ok := dev.CapabilitiesFlat[evdev.EV_ABS]
	if !ok {
		return false
	}
	hasX, hasY := false, false
	for _, axis := range absAxes {
		if axis == evdev.ABS_MT_POSITION_X {
			hasX = true
		}
		if axis == evdev.ABS_MT_POSITION_Y {
			hasY = true
		}
	}
	return hasX && hasY
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
