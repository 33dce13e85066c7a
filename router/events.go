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

package router

import (
	"fmt"
	"time"
)

// Event is implemented by every type of input event.
type Event interface {
	isEvent()
}

// PointerDown is the start of a pointer press at the display position.
type PointerDown struct {
	X, Y int
	T    time.Time
}

// PointerMove is the pointer moving while pressed.
type PointerMove struct {
	X, Y int
	T    time.Time
}

// PointerUp is the end of a pointer press.
type PointerUp struct {
	X, Y int
	T    time.Time
}

// ButtonEdge is a change in the state of the physical button.
type ButtonEdge struct {
	Pressed bool
}

// ConsoleBytes is data for the device's console input.
type ConsoleBytes struct {
	Data []byte
}

// Tick is the passing of time.
type Tick struct {
	Elapsed time.Duration
}

// Quit requests a clean shutdown.
type Quit struct{}

func (PointerDown) isEvent()  {}
func (PointerMove) isEvent()  {}
func (PointerUp) isEvent()    {}
func (ButtonEdge) isEvent()   {}
func (ConsoleBytes) isEvent() {}
func (Tick) isEvent()         {}
func (Quit) isEvent()         {}

func (ev PointerDown) String() string {
	return fmt.Sprintf("pointer down (%d,%d)", ev.X, ev.Y)
}

func (ev PointerMove) String() string {
	return fmt.Sprintf("pointer move (%d,%d)", ev.X, ev.Y)
}

func (ev PointerUp) String() string {
	return fmt.Sprintf("pointer up (%d,%d)", ev.X, ev.Y)
}

func (ev ButtonEdge) String() string {
	if ev.Pressed {
		return "button pressed"
	}
	return "button released"
}

func (ev ConsoleBytes) String() string {
	return fmt.Sprintf("console (%d bytes)", len(ev.Data))
}

func (ev Tick) String() string {
	return fmt.Sprintf("tick (%v)", ev.Elapsed)
}

func (ev Quit) String() string {
	return "quit"
}
