// This file is part of Banglemu.
//
// Banglemu is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Banglemu is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Banglemu.  If not, see <https://www.gnu.org/licenses/>.

package emulation

import (
	"context"
	"time"

	"github.com/banglemu/banglemu/curated"
	"github.com/banglemu/banglemu/device"
	"github.com/banglemu/banglemu/gesture"
	"github.com/banglemu/banglemu/logger"
	"github.com/banglemu/banglemu/metrics"
	"github.com/banglemu/banglemu/router"
	"github.com/banglemu/banglemu/storage"
)

// Sentinal errors.
const (
	UnhandledEvent = "emulation: unhandled event (%T)"
)

// Renderer receives output from the device. Functions are called from the
// loop's goroutine and should not block for long.
type Renderer interface {
	SetFrame(frame device.Frame)
	AppendConsole(data []byte)
}

// Console is the remote console. The bridge.Bridge type implements this
// interface.
type Console interface {
	Publish(data []byte)
	Close() error
}

// Config for a new Loop.
type Config struct {
	// files to preload into storage, in order
	Files []storage.File

	// capacity of the storage region. zero uses storage.DefaultCapacity
	Capacity int

	Gesture gesture.Config
}

// State of the loop.
type State int

// List of valid State values.
const (
	Initialising State = iota
	Running
	Ending
)

func (s State) String() string {
	switch s {
	case Initialising:
		return "initialising"
	case Running:
		return "running"
	case Ending:
		return "ending"
	}
	return "unknown"
}

// Loop is the emulation loop.
type Loop struct {
	dev    *device.Device
	events <-chan router.Delivery

	img        storage.Image
	classifier *gesture.Classifier

	renderer Renderer
	console  Console
	metrics  *metrics.Metrics

	state State
}

// NewLoop is the preferred method of initialisation for the Loop type. The
// storage image is built immediately and so an error is returned if the files
// do not fit in the storage region.
func NewLoop(dev *device.Device, events <-chan router.Delivery, cfg Config) (*Loop, error) {
	capacity := cfg.Capacity
	if capacity == 0 {
		capacity = storage.DefaultCapacity
	}

	img, err := storage.Build(cfg.Files, capacity)
	if err != nil {
		return nil, err
	}

	logger.Logf(logger.Allow, "storage", "%d files in %d bytes", len(cfg.Files), img.Len())

	return &Loop{
		dev:        dev,
		events:     events,
		img:        img,
		classifier: gesture.NewClassifier(cfg.Gesture),
	}, nil
}

// SetRenderer sets the destination for frames and console output. Must be
// called before Run().
func (l *Loop) SetRenderer(r Renderer) {
	l.renderer = r
}

// SetConsole sets the remote console. The console is closed when Run()
// returns. Must be called before Run().
func (l *Loop) SetConsole(c Console) {
	l.console = c
}

// SetMetrics instruments the loop. Must be called before Run().
func (l *Loop) SetMetrics(m *metrics.Metrics) {
	l.metrics = m
}

// State returns the current state of the loop. Only meaningful when called
// from the loop's goroutine or after Run() has returned.
func (l *Loop) State() State {
	return l.state
}

// Run the loop until a Quit event is received or the context is cancelled.
// The device is booted before the first event is consumed and is closed when
// Run returns. The device must not be used by anything else after Run has
// been called.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.state = Ending
		if l.console != nil {
			if err := l.console.Close(); err != nil {
				logger.Logf(logger.Allow, "console", "close: %v", err)
			}
		}
		if err := l.dev.Close(); err != nil {
			logger.Logf(logger.Allow, "emulation", "close device: %v", err)
		}
	}()

	l.state = Initialising

	if err := l.dev.WriteStorage(l.img); err != nil {
		return err
	}
	if err := l.dev.Init(); err != nil {
		return err
	}
	if err := l.publish(); err != nil {
		return err
	}

	l.state = Running
	logger.Log(logger.Allow, "emulation", "running")

	for {
		select {
		case <-ctx.Done():
			logger.Log(logger.Allow, "emulation", "cancelled")
			return l.publish()

		case d := <-l.events:
			l.metrics.Event(string(d.Source))

			quit, err := l.apply(d.Event)
			if err != nil {
				return err
			}

			if err := l.publish(); err != nil {
				return err
			}

			if quit {
				logger.Logf(logger.Allow, "emulation", "quit from %s", d.Source)
				return nil
			}
		}
	}
}

// apply a single event to the device. returns true if the event is a request
// to quit.
func (l *Loop) apply(ev router.Event) (bool, error) {
	switch ev := ev.(type) {
	case router.PointerDown:
		if e, ok := l.classifier.Down(ev.X, ev.Y, ev.T); ok {
			return false, l.touch(e)
		}

	case router.PointerMove:
		if e, ok := l.classifier.Move(ev.X, ev.Y, ev.T); ok {
			return false, l.touch(e)
		}

	case router.PointerUp:
		if e, ok := l.classifier.Up(ev.X, ev.Y, ev.T); ok {
			return false, l.touch(e)
		}

	case router.ButtonEdge:
		l.metrics.DeviceOperation()
		return false, l.dev.SetButton(ev.Pressed)

	case router.ConsoleBytes:
		l.metrics.DeviceOperation()
		l.metrics.ConsoleIn(len(ev.Data))
		return false, l.dev.WriteConsole(ev.Data)

	case router.Tick:
		l.metrics.DeviceOperation()
		start := time.Now()
		if _, err := l.dev.Advance(ev.Elapsed); err != nil {
			return false, err
		}
		l.metrics.Advance(time.Since(start))

	case router.Quit:
		return true, nil

	default:
		return false, curated.Errorf(UnhandledEvent, ev)
	}

	return false, nil
}

// touch applies a gesture emission to the device.
func (l *Loop) touch(e gesture.Emission) error {
	l.metrics.DeviceOperation()

	switch e.Kind {
	case gesture.TouchDown, gesture.TouchMove:
		return l.dev.SetTouch(e.X, e.Y, true)
	case gesture.TouchUp:
		return l.dev.SetTouch(e.X, e.Y, false)
	case gesture.Tap:
		return l.dev.Gesture(e.X, e.Y, device.GestureTap)
	case gesture.Swipe:
		return l.dev.Gesture(e.X, e.Y, swipes[e.Direction])
	}

	return nil
}

// gesture directions and the equivalent touchscreen controller code.
var swipes = map[gesture.Direction]device.Gesture{
	gesture.Up:    device.GestureSwipeUp,
	gesture.Down:  device.GestureSwipeDown,
	gesture.Left:  device.GestureSwipeLeft,
	gesture.Right: device.GestureSwipeRight,
}

// publish output from the device to the renderer and the remote console.
func (l *Loop) publish() error {
	changed, err := l.dev.FrameChanged()
	if err != nil {
		return err
	}
	if changed {
		frame, err := l.dev.Display()
		if err != nil {
			return err
		}
		l.metrics.Frame()
		if l.renderer != nil {
			l.renderer.SetFrame(frame)
		}
	}

	out, err := l.dev.DrainConsoleOutput()
	if err != nil {
		return err
	}
	if len(out) > 0 {
		l.metrics.ConsoleOut(len(out))
		if l.renderer != nil {
			l.renderer.AppendConsole(out)
		}
		if l.console != nil {
			l.console.Publish(out)
		}
	}

	return nil
}
