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

// Package gesture translates raw pointer events into the touch semantics
// expected by the device's touchscreen controller.
//
// The Classifier is a small state machine with two states: idle and
// touching. A pointer down event starts a touch and a pointer up event ends
// it. At the end of a touch the Classifier decides whether the touch was a
// tap, a swipe or a slow drag, based on the distance between the start and
// end positions and the time taken.
//
// Intermediate move events only cause a TouchMove emission if the pointer has
// moved far enough since the last emission. This prevents the device being
// flooded with events that make no difference.
//
// The device is single-touch and so a second pointer down event while a touch
// is active is ignored.
//
// The Classifier is not safe for concurrent use. In practice it is owned by
// the emulation loop and is only ever used by that goroutine.
package gesture
