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

package device

import "context"

// Module is the capability surface of a loaded virtual-device module.
type Module interface {
	// Call an exported function. Parameters and results are encoded as
	// uint64 values in the same way as the WebAssembly stack.
	Call(ctx context.Context, export string, params ...uint64) ([]uint64, error)

	// ReadMemory returns a copy of length bytes of the module's linear memory
	// beginning at offset.
	ReadMemory(offset uint32, length uint32) ([]byte, error)

	// WriteMemory copies data into the module's linear memory at offset.
	WriteMemory(offset uint32, data []byte) error

	// Close the module and release any resources.
	Close(ctx context.Context) error
}

// Host is the hardware outside of the module that the module requires access
// to. Functions are called by the module while one of its exports is running.
type Host interface {
	FlashRead(addr uint32) (uint8, error)
	FlashWrite(addr uint32, data []byte) error
	PinValue(pin int) (bool, error)
	SetPinValue(pin int, value bool) error

	// the time in milliseconds. the time only moves forward when the
	// device is advanced
	NowMillis() float64

	// a byte of output from the module's console
	ConsoleOutput(b byte)
}

// Loader creates a Module instance that is connected to the Host.
type Loader func(ctx context.Context, host Host) (Module, error)

// encodeI32 and decodeI32 convert between Go values and the WebAssembly
// representation of an i32 on the stack.
func encodeI32(v int) uint64 {
	return uint64(uint32(int32(v)))
}

func decodeI32(v uint64) int32 {
	return int32(uint32(v))
}
