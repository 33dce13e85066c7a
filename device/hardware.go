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
	"time"

	"github.com/banglemu/banglemu/curated"
)

// Hardware constants.
const (
	// size of the flash memory
	FlashSize = 1 << 23

	// number of GPIO pins
	NumPins = 48

	// the pin the physical button is connected to
	PinButton = 17
)

// hardware is the state of the device outside of the module. implements the
// Host interface.
type hardware struct {
	flash []byte
	pins  [NumPins]bool

	// milliseconds since the unix epoch
	clock float64

	// console output waiting to be drained
	output []byte
}

func newHardware(now time.Time) *hardware {
	hw := &hardware{
		flash: make([]byte, FlashSize),
		clock: float64(now.UnixNano()) / float64(time.Millisecond),
	}

	// flash is erased
	for i := range hw.flash {
		hw.flash[i] = 0xff
	}

	return hw
}

// FlashRead implements the Host interface.
func (hw *hardware) FlashRead(addr uint32) (uint8, error) {
	if int(addr) >= len(hw.flash) {
		return 0, curated.Errorf(FlashRange, addr, 1)
	}
	return hw.flash[addr], nil
}

// FlashWrite implements the Host interface.
func (hw *hardware) FlashWrite(addr uint32, data []byte) error {
	if uint64(addr)+uint64(len(data)) > uint64(len(hw.flash)) {
		return curated.Errorf(FlashRange, addr, len(data))
	}
	copy(hw.flash[addr:], data)
	return nil
}

// PinValue implements the Host interface.
func (hw *hardware) PinValue(pin int) (bool, error) {
	if pin < 0 || pin >= NumPins {
		return false, curated.Errorf(PinRange, pin)
	}
	return hw.pins[pin], nil
}

// SetPinValue implements the Host interface.
func (hw *hardware) SetPinValue(pin int, value bool) error {
	if pin < 0 || pin >= NumPins {
		return curated.Errorf(PinRange, pin)
	}
	hw.pins[pin] = value
	return nil
}

// NowMillis implements the Host interface.
func (hw *hardware) NowMillis() float64 {
	return hw.clock
}

// ConsoleOutput implements the Host interface.
func (hw *hardware) ConsoleOutput(b byte) {
	hw.output = append(hw.output, b)
}
