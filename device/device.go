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

import (
	"context"
	"time"

	"github.com/banglemu/banglemu/assert"
	"github.com/banglemu/banglemu/curated"
	"github.com/banglemu/banglemu/logger"
	"github.com/banglemu/banglemu/storage"
)

// Sentinal errors.
const (
	Fault            = "device: fault: %v"
	FlashRange       = "device: flash access out of range (%#x, %d bytes)"
	PinRange         = "device: pin out of range (%d)"
	InvalidAdvance   = "device: invalid advance (%v)"
	StorageAfterBoot = "device: storage cannot be written after boot"
	StorageRange     = "device: storage image does not fit in flash (%d bytes at %#x)"
)

// console device ID used when pushing characters into the firmware.
const consoleDevice = 21

// the number of characters pushed into the firmware before yielding to it.
// the firmware's input queue is small and will overflow otherwise.
const pushYield = 32

// the number of times the firmware is idled during an advance while waiting
// for it to report a wake time.
const idleAttempts = 5

// Device is the handle to the virtual device.
type Device struct {
	ctx   context.Context
	owner assert.Owner

	mod Module
	hw  *hardware

	// offset of the storage region in flash
	storageOffset int

	// the device has been booted with Init()
	booted bool

	// once set the device is no longer usable
	fault error
}

// NewDevice is the preferred method of initialisation for the Device type. The
// Loader is called to create the module that implements the device firmware.
//
// The context is used for every call into the module.
func NewDevice(ctx context.Context, load Loader) (*Device, error) {
	dev := &Device{
		ctx:   ctx,
		owner: assert.Owner{Name: "device"},
		hw:    newHardware(time.Now()),
	}

	var err error
	dev.mod, err = load(ctx, dev.hw)
	if err != nil {
		return nil, err
	}

	return dev, nil
}

// SetStorageOffset changes the location of the storage region in flash. The
// default is the start of flash.
func (dev *Device) SetStorageOffset(offset int) {
	dev.storageOffset = offset
}

// Close the device and the underlying module.
func (dev *Device) Close() error {
	dev.owner.Check()
	return dev.mod.Close(dev.ctx)
}

// call is the single point through which every export of the module is
// called. an error from the module is recorded as a fault.
func (dev *Device) call(export string, params ...uint64) ([]uint64, error) {
	if dev.fault != nil {
		return nil, dev.fault
	}

	r, err := dev.mod.Call(dev.ctx, export, params...)
	if err != nil {
		dev.fault = curated.Errorf(Fault, err)
		logger.Logf(logger.Allow, "device", "%v (calling %s)", err, export)
		return nil, dev.fault
	}

	return r, nil
}

// result returns the first result of a call as an int32.
func (dev *Device) result(export string, params ...uint64) (int32, error) {
	r, err := dev.call(export, params...)
	if err != nil {
		return 0, err
	}
	if len(r) == 0 {
		dev.fault = curated.Errorf(Fault, curated.Errorf("no result from %s", export))
		return 0, dev.fault
	}
	return decodeI32(r[0]), nil
}

// WriteStorage copies the storage image into flash. The storage image must be
// written before the device is booted.
func (dev *Device) WriteStorage(img storage.Image) error {
	dev.owner.Check()

	if dev.fault != nil {
		return dev.fault
	}
	if dev.booted {
		return curated.Errorf(StorageAfterBoot)
	}

	if dev.storageOffset < 0 || dev.storageOffset+img.Len() > len(dev.hw.flash) {
		return curated.Errorf(StorageRange, img.Len(), dev.storageOffset)
	}

	copy(dev.hw.flash[dev.storageOffset:], img.Data)
	logger.Logf(logger.Allow, "device", "storage image of %d bytes written at %#x", img.Len(), dev.storageOffset)

	return nil
}

// Init boots the firmware.
func (dev *Device) Init() error {
	dev.owner.Check()

	if _, err := dev.call("jsInit"); err != nil {
		return err
	}
	dev.booted = true

	// the firmware watches the button pin
	if _, err := dev.call("jsSendPinWatchEvent", encodeI32(PinButton)); err != nil {
		return err
	}

	return dev.transmit()
}

// Advance moves the device clock forward by the duration and gives the
// firmware the opportunity to run any timers and events that are due.
//
// Returns the time until the firmware next expects to be woken. A value of
// zero means the firmware did not say.
func (dev *Device) Advance(d time.Duration) (time.Duration, error) {
	dev.owner.Check()

	if d < 0 {
		return 0, curated.Errorf(InvalidAdvance, d)
	}

	dev.hw.clock += float64(d) / float64(time.Millisecond)

	var wake time.Duration
	for i := 0; i < idleAttempts; i++ {
		r, err := dev.result("jsIdle")
		if err != nil {
			return 0, err
		}
		if r > 0 {
			wake = time.Duration(r) * time.Millisecond
			break // for loop
		}
	}

	return wake, dev.transmit()
}

// FrameChanged returns true if display memory has changed since the last
// call.
func (dev *Device) FrameChanged() (bool, error) {
	dev.owner.Check()

	r, err := dev.result("jsGfxChanged")
	if err != nil {
		return false, err
	}
	return r != 0, nil
}

// Display returns a decoded snapshot of display memory.
func (dev *Device) Display() (Frame, error) {
	dev.owner.Check()

	var frame Frame
	for y := range frame.Pixels {
		ptr, err := dev.result("jsGfxGetPtr", encodeI32(y))
		if err != nil {
			return Frame{}, err
		}

		mem, err := dev.mod.ReadMemory(uint32(ptr), BytesPerLine)
		if err != nil {
			dev.fault = curated.Errorf(Fault, err)
			return Frame{}, dev.fault
		}

		decodeLine(mem, &frame.Pixels[y])
	}

	return frame, nil
}

// WriteConsole pushes data into the firmware's console input.
func (dev *Device) WriteConsole(data []byte) error {
	dev.owner.Check()

	for i, b := range data {
		if _, err := dev.call("jshPushIOCharEvent", encodeI32(consoleDevice), encodeI32(int(b))); err != nil {
			return err
		}

		// yield to the firmware so that the input queue doesn't overflow
		if (i+1)%pushYield == 0 {
			if err := dev.transmit(); err != nil {
				return err
			}
			if _, err := dev.call("jsIdle"); err != nil {
				return err
			}
		}
	}

	return nil
}

// transmit collects any console output that the firmware has waiting.
func (dev *Device) transmit() error {
	for {
		d, err := dev.result("jshGetDeviceToTransmit")
		if err != nil {
			return err
		}
		if d == 0 {
			return nil
		}

		c, err := dev.result("jshGetCharToTransmit", encodeI32(int(d)))
		if err != nil {
			return err
		}
		if c < 0 || c > 0xff {
			return nil
		}

		dev.hw.ConsoleOutput(byte(c))
	}
}

// DrainConsoleOutput returns all console output generated since the previous
// call.
func (dev *Device) DrainConsoleOutput() ([]byte, error) {
	dev.owner.Check()

	if err := dev.transmit(); err != nil {
		return nil, err
	}

	out := dev.hw.output
	dev.hw.output = nil
	return out, nil
}

// SetTouch sets the position and pressed state of the touchscreen.
func (dev *Device) SetTouch(x, y int, pressed bool) error {
	dev.owner.Check()

	pts := 0
	if pressed {
		pts = 1
	}

	_, err := dev.call("jsSendTouchEvent", encodeI32(x), encodeI32(y), encodeI32(pts), encodeI32(int(GestureNone)))
	return err
}

// Gesture reports a gesture recognised by the touchscreen controller. The
// touchscreen is released at the position.
func (dev *Device) Gesture(x, y int, g Gesture) error {
	dev.owner.Check()

	_, err := dev.call("jsSendTouchEvent", encodeI32(x), encodeI32(y), encodeI32(0), encodeI32(int(g)))
	return err
}

// SetButton sets the state of the physical button.
func (dev *Device) SetButton(pressed bool) error {
	dev.owner.Check()

	if dev.fault != nil {
		return dev.fault
	}

	dev.hw.pins[PinButton] = pressed
	_, err := dev.call("jsSendPinWatchEvent", encodeI32(PinButton))
	return err
}

// Flash returns a copy of length bytes of flash memory beginning at offset.
func (dev *Device) Flash(offset int, length int) []byte {
	dev.owner.Check()

	if offset < 0 || offset >= len(dev.hw.flash) {
		return nil
	}
	end := offset + length
	if end > len(dev.hw.flash) {
		end = len(dev.hw.flash)
	}

	b := make([]byte, end-offset)
	copy(b, dev.hw.flash[offset:end])
	return b
}
