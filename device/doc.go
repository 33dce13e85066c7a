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

// Package device is the handle to the virtual device. The virtual device is
// the firmware of the watch compiled to a WebAssembly module.
//
// The module itself is an external capability, described by the Module
// interface. The device package never looks inside the module. It only calls
// the module's exports and reads and writes the module's memory. The wasm
// sub-package loads a module file and implements the Module interface.
//
// In the other direction the module needs access to hardware that is outside
// of the module: the flash memory, GPIO pins, the clock and the console. This
// is described by the Host interface, which the Device implements with its own
// hardware state.
//
// The Device is not safe for concurrent use. Every function assumes that it is
// the only call into the device currently in flight. The emulation package is
// responsible for making sure that is true. When built with the "assertions"
// build tag, the Device will panic if it is called from more than one
// goroutine.
//
// Any error from the module, whether a trap or a failure to access memory, is
// a fault. The state of the firmware is unknowable after a fault and every
// subsequent call to the device will return the same fault.
package device
