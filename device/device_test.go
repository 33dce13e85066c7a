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

package device_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/banglemu/banglemu/curated"
	"github.com/banglemu/banglemu/device"
	"github.com/banglemu/banglemu/device/testdevice"
	"github.com/banglemu/banglemu/storage"
	"github.com/banglemu/banglemu/test"
)

func newDevice(t *testing.T) (*device.Device, *testdevice.Firmware) {
	t.Helper()
	fw := testdevice.NewFirmware()
	dev, err := device.NewDevice(context.Background(), fw.Loader())
	test.DemandSuccess(t, err)
	return dev, fw
}

func TestBoot(t *testing.T) {
	dev, fw := newDevice(t)
	defer dev.Close()

	test.DemandSuccess(t, dev.Init())
	test.ExpectSuccess(t, fw.Booted())

	// output produced during boot is available immediately
	out, err := dev.DrainConsoleOutput()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(out), "booted\r\n")

	// the button pin is reported during boot
	test.ExpectEquality(t, len(fw.Button()), 1)
}

func TestConsole(t *testing.T) {
	dev, fw := newDevice(t)
	defer dev.Close()
	test.DemandSuccess(t, dev.Init())
	_, _ = dev.DrainConsoleOutput()

	// long enough to require yielding to the firmware more than once
	s := strings.Repeat("print('hello world');", 10) + "\n"
	test.DemandSuccess(t, dev.WriteConsole([]byte(s)))

	test.ExpectEquality(t, string(fw.Input()), s)

	// the firmware echoes everything and order is preserved
	out, err := dev.DrainConsoleOutput()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(out), s)

	// output is only returned once
	out, err = dev.DrainConsoleOutput()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(out), 0)
}

func TestStorage(t *testing.T) {
	dev, fw := newDevice(t)
	defer dev.Close()

	img, err := storage.Build([]storage.File{{Name: ".bootcde", Content: []byte("Bangle.loadWidgets();")}}, storage.DefaultCapacity)
	test.DemandSuccess(t, err)

	dev.SetStorageOffset(0x1000)
	test.DemandSuccess(t, dev.WriteStorage(img))

	// the firmware sees the image through the host
	for i := 0; i < img.Len(); i++ {
		v, err := fw.Host().FlashRead(uint32(0x1000 + i))
		test.DemandSuccess(t, err)
		test.DemandEquality(t, v, img.Data[i])
	}

	// flash either side of the image is still erased
	test.ExpectSuccess(t, bytes.Equal(dev.Flash(0x0ffc, 4), []byte{0xff, 0xff, 0xff, 0xff}))
	test.ExpectEquality(t, dev.Flash(0x1000+img.Len(), 1)[0], uint8(0xff))

	decoded, err := storage.Decode(dev.Flash(0x1000, img.Len()+storage.HeaderSize))
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(decoded), 1)
	test.ExpectEquality(t, decoded[0].Name, ".bootcde")

	// storage can not be changed once the device has booted
	test.DemandSuccess(t, dev.Init())
	err = dev.WriteStorage(img)
	test.ExpectSuccess(t, curated.Is(err, device.StorageAfterBoot))
}

func TestStorageRange(t *testing.T) {
	dev, _ := newDevice(t)
	defer dev.Close()

	img, err := storage.Build([]storage.File{{Name: "a", Content: []byte("a")}}, storage.DefaultCapacity)
	test.DemandSuccess(t, err)

	dev.SetStorageOffset(device.FlashSize - 4)
	err = dev.WriteStorage(img)
	test.ExpectSuccess(t, curated.Is(err, device.StorageRange))
}

func TestHostRange(t *testing.T) {
	_, fw := newDevice(t)
	host := fw.Host()

	_, err := host.FlashRead(device.FlashSize)
	test.ExpectSuccess(t, curated.Is(err, device.FlashRange))

	err = host.FlashWrite(device.FlashSize-1, []byte{0, 0})
	test.ExpectSuccess(t, curated.Is(err, device.FlashRange))

	err = host.FlashWrite(device.FlashSize-2, []byte{0x12, 0x34})
	test.ExpectSuccess(t, err)
	v, err := host.FlashRead(device.FlashSize - 1)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0x34))

	_, err = host.PinValue(device.NumPins)
	test.ExpectSuccess(t, curated.Is(err, device.PinRange))
	test.ExpectSuccess(t, curated.Is(host.SetPinValue(-1, true), device.PinRange))

	test.ExpectSuccess(t, host.SetPinValue(3, true))
	p, err := host.PinValue(3)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, p)
}

func TestAdvance(t *testing.T) {
	dev, fw := newDevice(t)
	defer dev.Close()
	test.DemandSuccess(t, dev.Init())

	start := fw.Host().NowMillis()

	// the clock does not move on its own
	time.Sleep(5 * time.Millisecond)
	test.ExpectEquality(t, fw.Host().NowMillis(), start)

	fw.Wake = 100
	wake, err := dev.Advance(250 * time.Millisecond)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, wake, 100*time.Millisecond)
	test.ExpectEquality(t, fw.Host().NowMillis(), start+250)

	// the firmware saw the advanced clock
	clk := fw.Clock()
	test.DemandEquality(t, len(clk), 1)
	test.ExpectEquality(t, clk[0], start+250)

	// a zero advance is allowed. the firmware is idled several times when
	// it does not report a wake time
	fw.Wake = 0
	wake, err = dev.Advance(0)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, wake, time.Duration(0))
	test.ExpectEquality(t, len(fw.Clock()), 6)

	_, err = dev.Advance(-time.Millisecond)
	test.ExpectSuccess(t, curated.Is(err, device.InvalidAdvance))
}

func TestFault(t *testing.T) {
	dev, fw := newDevice(t)
	defer dev.Close()
	test.DemandSuccess(t, dev.Init())

	fw.Trap = "jsIdle"
	_, err := dev.Advance(time.Millisecond)
	test.ExpectSuccess(t, curated.Is(err, device.Fault))

	// the fault is sticky. no further calls reach the firmware
	fw.Trap = ""
	calls := fw.Calls()

	_, err = dev.Advance(time.Millisecond)
	test.ExpectSuccess(t, curated.Is(err, device.Fault))
	test.ExpectSuccess(t, curated.Is(dev.WriteConsole([]byte("x")), device.Fault))
	test.ExpectSuccess(t, curated.Is(dev.SetButton(true), device.Fault))
	test.ExpectSuccess(t, curated.Is(dev.SetTouch(1, 1, true), device.Fault))
	_, err = dev.Display()
	test.ExpectSuccess(t, curated.Is(err, device.Fault))

	test.ExpectEquality(t, fw.Calls(), calls)
}

func TestDisplay(t *testing.T) {
	dev, fw := newDevice(t)
	defer dev.Close()
	test.DemandSuccess(t, dev.Init())

	changed, err := dev.FrameChanged()
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, changed)

	// pixels that straddle a byte boundary
	fw.SetPixel(2, 0, 0x07)
	fw.SetPixel(5, 10, 0x05)
	fw.SetPixel(device.Width-1, device.Height-1, 0x02)

	changed, err = dev.FrameChanged()
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, changed)

	frame, err := dev.Display()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, frame.Pixels[0][2], device.Color(0x07))
	test.ExpectEquality(t, frame.Pixels[0][1], device.Color(0))
	test.ExpectEquality(t, frame.Pixels[0][3], device.Color(0))
	test.ExpectEquality(t, frame.Pixels[10][5], device.Color(0x05))
	test.ExpectEquality(t, frame.Pixels[device.Height-1][device.Width-1], device.Color(0x02))

	r, g, b := frame.Pixels[10][5].RGB()
	test.ExpectSuccess(t, r)
	test.ExpectFailure(t, g)
	test.ExpectSuccess(t, b)

	changed, err = dev.FrameChanged()
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, changed)
}

func TestInput(t *testing.T) {
	dev, fw := newDevice(t)
	defer dev.Close()
	test.DemandSuccess(t, dev.Init())

	test.DemandSuccess(t, dev.SetTouch(10, 20, true))
	test.DemandSuccess(t, dev.SetTouch(30, 20, true))
	test.DemandSuccess(t, dev.Gesture(30, 20, device.GestureSwipeRight))

	touches := fw.Touches()
	test.DemandEquality(t, len(touches), 3)
	test.ExpectEquality(t, touches[0], testdevice.Touch{X: 10, Y: 20, Pressed: true, Gesture: device.GestureNone})
	test.ExpectEquality(t, touches[1], testdevice.Touch{X: 30, Y: 20, Pressed: true, Gesture: device.GestureNone})
	test.ExpectEquality(t, touches[2], testdevice.Touch{X: 30, Y: 20, Pressed: false, Gesture: device.GestureSwipeRight})

	test.DemandSuccess(t, dev.SetButton(true))
	test.DemandSuccess(t, dev.SetButton(false))

	// the first value is from boot
	test.ExpectEquality(t, fmt.Sprint(fw.Button()), "[false true false]")
}

func TestGestureString(t *testing.T) {
	test.ExpectEquality(t, device.GestureTap.String(), "tap")
	test.ExpectEquality(t, device.GestureSwipeLeft.String(), "swipe left")
	test.ExpectEquality(t, device.Gesture(99).String(), "unknown")
}
