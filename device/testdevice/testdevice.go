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

// Package testdevice is a stand-in for the virtual-device module. It
// implements the device.Module interface with enough behaviour to test the
// device handle and the emulation loop without a compiled firmware.
//
// The firmware echoes every character pushed into its console, records touch
// and button events, and counts the number of calls in flight at any one
// time.
package testdevice

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/banglemu/banglemu/device"
)

// Touch is a record of a call to jsSendTouchEvent.
type Touch struct {
	X, Y    int
	Pressed bool
	Gesture device.Gesture
}

// the device ID of the console
const consoleDevice = 21

// Firmware implements the device.Module interface.
type Firmware struct {
	host device.Host

	// if not empty then calling the named export returns an error
	Trap string

	// the value returned by jsIdle
	Wake int32

	// number of calls currently in flight and the maximum ever seen
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	calls       atomic.Int64

	closed atomic.Bool

	crit    sync.Mutex
	memory  []byte
	input   []byte
	pending []byte
	touches []Touch
	button  []bool
	clock   []float64
	dirty   bool
	booted  bool
}

// NewFirmware is the preferred method of initialisation for the Firmware
// type.
func NewFirmware() *Firmware {
	return &Firmware{
		memory: make([]byte, device.Height*device.BytesPerLine),
	}
}

// Loader returns a device.Loader that connects the firmware to the host.
func (fw *Firmware) Loader() device.Loader {
	return func(_ context.Context, host device.Host) (device.Module, error) {
		fw.host = host
		return fw, nil
	}
}

// Host returns the host the firmware is connected to.
func (fw *Firmware) Host() device.Host {
	return fw.host
}

// SetPixel changes a pixel in display memory and marks the display as
// changed.
func (fw *Firmware) SetPixel(x, y int, c device.Color) {
	fw.crit.Lock()
	defer fw.crit.Unlock()

	line := fw.memory[y*device.BytesPerLine : (y+1)*device.BytesPerLine]
	for b := 0; b < device.BitsPerPixel; b++ {
		bit := x*device.BitsPerPixel + b
		if c&(1<<b) != 0 {
			line[bit>>3] |= 1 << (bit & 7)
		} else {
			line[bit>>3] &^= 1 << (bit & 7)
		}
	}
	fw.dirty = true
}

// Output queues bytes of console output as if the firmware had printed them.
func (fw *Firmware) Output(s string) {
	fw.crit.Lock()
	defer fw.crit.Unlock()
	fw.pending = append(fw.pending, s...)
}

// Input returns everything pushed into the console.
func (fw *Firmware) Input() []byte {
	fw.crit.Lock()
	defer fw.crit.Unlock()
	b := make([]byte, len(fw.input))
	copy(b, fw.input)
	return b
}

// Touches returns every touch event sent to the firmware.
func (fw *Firmware) Touches() []Touch {
	fw.crit.Lock()
	defer fw.crit.Unlock()
	t := make([]Touch, len(fw.touches))
	copy(t, fw.touches)
	return t
}

// Button returns the value of the button pin at every pin watch event.
func (fw *Firmware) Button() []bool {
	fw.crit.Lock()
	defer fw.crit.Unlock()
	b := make([]bool, len(fw.button))
	copy(b, fw.button)
	return b
}

// Clock returns the host time seen at every call to jsIdle.
func (fw *Firmware) Clock() []float64 {
	fw.crit.Lock()
	defer fw.crit.Unlock()
	c := make([]float64, len(fw.clock))
	copy(c, fw.clock)
	return c
}

// Booted returns true if jsInit has been called.
func (fw *Firmware) Booted() bool {
	fw.crit.Lock()
	defer fw.crit.Unlock()
	return fw.booted
}

// MaxInFlight returns the maximum number of calls ever in flight at once.
func (fw *Firmware) MaxInFlight() int {
	return int(fw.maxInFlight.Load())
}

// Calls returns the total number of calls into the firmware.
func (fw *Firmware) Calls() int {
	return int(fw.calls.Load())
}

// Call implements the device.Module interface.
func (fw *Firmware) Call(_ context.Context, export string, params ...uint64) ([]uint64, error) {
	n := fw.inFlight.Add(1)
	defer fw.inFlight.Add(-1)
	for {
		m := fw.maxInFlight.Load()
		if n <= m || fw.maxInFlight.CompareAndSwap(m, n) {
			break // for loop
		}
	}
	fw.calls.Add(1)

	// widen the window in which a concurrent call would be detected
	runtime.Gosched()

	if export == fw.Trap {
		return nil, fmt.Errorf("wasm error: unreachable (%s)", export)
	}

	i32 := func(i int) int {
		return int(int32(uint32(params[i])))
	}
	ret := func(v int) []uint64 {
		return []uint64{uint64(uint32(int32(v)))}
	}

	fw.crit.Lock()
	defer fw.crit.Unlock()

	switch export {
	case "jsInit":
		fw.booted = true
		fw.pending = append(fw.pending, "booted\r\n"...)
		return nil, nil

	case "jsIdle":
		fw.clock = append(fw.clock, fw.host.NowMillis())
		return ret(int(fw.Wake)), nil

	case "jsGfxChanged":
		if fw.dirty {
			fw.dirty = false
			return ret(1), nil
		}
		return ret(0), nil

	case "jsGfxGetPtr":
		return ret(i32(0) * device.BytesPerLine), nil

	case "jshPushIOCharEvent":
		ch := byte(i32(1))
		fw.input = append(fw.input, ch)
		fw.pending = append(fw.pending, ch)
		return nil, nil

	case "jshGetDeviceToTransmit":
		if len(fw.pending) > 0 {
			return ret(consoleDevice), nil
		}
		return ret(0), nil

	case "jshGetCharToTransmit":
		if len(fw.pending) == 0 {
			return ret(-1), nil
		}
		ch := fw.pending[0]
		fw.pending = fw.pending[1:]
		return ret(int(ch)), nil

	case "jsSendTouchEvent":
		fw.touches = append(fw.touches, Touch{
			X:       i32(0),
			Y:       i32(1),
			Pressed: i32(2) != 0,
			Gesture: device.Gesture(i32(3)),
		})
		fw.dirty = true
		return nil, nil

	case "jsSendPinWatchEvent":
		v, err := fw.host.PinValue(i32(0))
		if err != nil {
			return nil, err
		}
		fw.button = append(fw.button, v)
		return nil, nil
	}

	return nil, fmt.Errorf("missing export: %s", export)
}

// ReadMemory implements the device.Module interface.
func (fw *Firmware) ReadMemory(offset uint32, length uint32) ([]byte, error) {
	fw.crit.Lock()
	defer fw.crit.Unlock()

	if uint64(offset)+uint64(length) > uint64(len(fw.memory)) {
		return nil, fmt.Errorf("memory read out of range (%#x, %d bytes)", offset, length)
	}
	b := make([]byte, length)
	copy(b, fw.memory[offset:])
	return b, nil
}

// WriteMemory implements the device.Module interface.
func (fw *Firmware) WriteMemory(offset uint32, data []byte) error {
	fw.crit.Lock()
	defer fw.crit.Unlock()

	if uint64(offset)+uint64(len(data)) > uint64(len(fw.memory)) {
		return fmt.Errorf("memory write out of range (%#x, %d bytes)", offset, len(data))
	}
	copy(fw.memory[offset:], data)
	return nil
}

// Close implements the device.Module interface.
func (fw *Firmware) Close(_ context.Context) error {
	fw.closed.Store(true)
	return nil
}

// Closed returns true if the module has been closed.
func (fw *Firmware) Closed() bool {
	return fw.closed.Load()
}
