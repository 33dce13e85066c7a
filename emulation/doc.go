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

// Package emulation runs the emulation loop. The loop is the only part of the
// program that accesses the device. Every other part of the program sends
// events to the loop through the router.
//
// The loop consumes one event at a time and applies it to the device. Pointer
// events are classified with the gesture package before being applied. Tick
// events advance the device's clock. After every event the loop collects any
// output from the device and passes it on: changed frames and console output
// go to the Renderer and console output also goes to the remote Console.
//
// The loop finishes when it receives a Quit event or when its context is
// cancelled. In both cases the current event is completed, waiting output is
// collected and published and the remote console is closed. This is a clean
// shutdown and Run() returns nil. A device fault ends the loop with an error.
package emulation
