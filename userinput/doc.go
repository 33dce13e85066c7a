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

// Package userinput translates the input read by the terminal surface into
// router events.
//
// Mouse presses on the display become pointer events. A press that starts
// outside the display is ignored, as are the drags and release that follow
// it. Pointer positions are clamped to the display.
//
// The enter and space keys press the device's button. The terminal does not
// report key releases so the button is released once the key has not been
// repeated for the Hold duration.
//
// The arrow keys inject a swipe into the device's console and the q, escape
// and Ctrl-C keys quit the emulator.
package userinput
