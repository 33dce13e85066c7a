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

// Display dimensions.
const (
	Width  = 176
	Height = 176

	// number of bits used for each pixel in display memory
	BitsPerPixel = 3

	// number of bytes of display memory for each line of the display
	BytesPerLine = Width * BitsPerPixel / 8
)

// Color is the 3-bit color of a single pixel. Bit zero is red, bit one is
// green and bit two is blue. This is the same ordering as the standard ANSI
// terminal colors.
type Color uint8

// RGB returns whether each of the color channels is on.
func (c Color) RGB() (bool, bool, bool) {
	return c&0x01 != 0, c&0x02 != 0, c&0x04 != 0
}

// Frame is a decoded snapshot of the display memory.
type Frame struct {
	Pixels [Height][Width]Color
}

// decodeLine unpacks the 3-bit pixels of a single line of display memory.
// pixels can straddle a byte boundary.
func decodeLine(mem []byte, line *[Width]Color) {
	for x := range line {
		bit := x * BitsPerPixel
		idx := bit >> 3
		shift := bit & 7

		v := mem[idx] >> shift
		if shift > 8-BitsPerPixel {
			v |= mem[idx+1] << (8 - shift)
		}

		line[x] = Color(v & 0x07)
	}
}
