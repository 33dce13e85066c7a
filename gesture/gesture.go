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

package gesture

import (
	"fmt"
	"math"
	"time"
)

// Kind indicates the type of an Emission.
type Kind int

// List of valid Kind values.
const (
	TouchDown Kind = iota
	TouchMove
	TouchUp
	Tap
	Swipe
)

func (k Kind) String() string {
	switch k {
	case TouchDown:
		return "touch down"
	case TouchMove:
		return "touch move"
	case TouchUp:
		return "touch up"
	case Tap:
		return "tap"
	case Swipe:
		return "swipe"
	}
	return "unknown"
}

// Direction of a swipe. The Y axis grows downwards.
type Direction int

// List of valid Direction values.
const (
	NoDirection Direction = iota
	Up
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// Emission is the result of classifying a pointer event.
type Emission struct {
	Kind Kind

	// for Tap this is the start position of the touch. for every other kind
	// it is the position of the pointer event that caused the emission
	X, Y int

	// only valid for Swipe
	Direction Direction
}

func (e Emission) String() string {
	if e.Kind == Swipe {
		return fmt.Sprintf("%s %s (%d,%d)", e.Kind, e.Direction, e.X, e.Y)
	}
	return fmt.Sprintf("%s (%d,%d)", e.Kind, e.X, e.Y)
}

// Config contains the thresholds used to classify a touch.
type Config struct {
	// the distance the pointer must move, since the last emission, before a
	// TouchMove is emitted
	MoveThreshold float64

	// a touch that ends this distance or less from where it started is a tap
	TapDistance float64

	// a touch that is not a tap and ends within this time is a swipe
	SwipeTime time.Duration
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		MoveThreshold: 2,
		TapDistance:   5,
		SwipeTime:     500 * time.Millisecond,
	}
}

// State of a touch. Only exists between a pointer down event and the matching
// pointer up event.
type State struct {
	StartX, StartY int
	Start          time.Time
	LastX, LastY   int

	// position of the most recent emission
	emitX, emitY int
}

// Classifier translates pointer events into touch emissions.
type Classifier struct {
	cfg Config

	// nil when idle
	touch *State
}

// NewClassifier is the preferred method of initialisation for the Classifier
// type.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Touching returns the state of the active touch. Returns false if the
// classifier is idle.
func (c *Classifier) Touching() (State, bool) {
	if c.touch == nil {
		return State{}, false
	}
	return *c.touch, true
}

func distance(ax, ay, bx, by int) float64 {
	return math.Hypot(float64(bx-ax), float64(by-ay))
}

// Down starts a touch. Returns false if a touch is already active, in which
// case the event is ignored.
func (c *Classifier) Down(x, y int, t time.Time) (Emission, bool) {
	if c.touch != nil {
		return Emission{}, false
	}

	c.touch = &State{
		StartX: x,
		StartY: y,
		Start:  t,
		LastX:  x,
		LastY:  y,
		emitX:  x,
		emitY:  y,
	}

	return Emission{Kind: TouchDown, X: x, Y: y}, true
}

// Move updates the position of the active touch. Returns false if there is
// no active touch or if the pointer hasn't moved far enough since the last
// emission.
func (c *Classifier) Move(x, y int, t time.Time) (Emission, bool) {
	if c.touch == nil {
		return Emission{}, false
	}

	c.touch.LastX = x
	c.touch.LastY = y

	if distance(c.touch.emitX, c.touch.emitY, x, y) <= c.cfg.MoveThreshold {
		return Emission{}, false
	}

	c.touch.emitX = x
	c.touch.emitY = y

	return Emission{Kind: TouchMove, X: x, Y: y}, true
}

// Up ends the active touch and classifies it. Returns false if there is no
// active touch.
func (c *Classifier) Up(x, y int, t time.Time) (Emission, bool) {
	if c.touch == nil {
		return Emission{}, false
	}

	touch := c.touch
	c.touch = nil

	if distance(touch.StartX, touch.StartY, x, y) <= c.cfg.TapDistance {
		return Emission{Kind: Tap, X: touch.StartX, Y: touch.StartY}, true
	}

	if t.Sub(touch.Start) <= c.cfg.SwipeTime {
		return Emission{Kind: Swipe, X: x, Y: y, Direction: direction(x-touch.StartX, y-touch.StartY)}, true
	}

	return Emission{Kind: TouchUp, X: x, Y: y}, true
}

// direction returns the dominant axis and sign of the displacement. ties are
// resolved in favour of the horizontal axis.
func direction(dx, dy int) Direction {
	adx := dx
	if adx < 0 {
		adx = -adx
	}
	ady := dy
	if ady < 0 {
		ady = -ady
	}

	if adx >= ady {
		if dx < 0 {
			return Left
		}
		return Right
	}

	if dy < 0 {
		return Up
	}
	return Down
}
