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

// Package terminal is the terminal surface of the emulator. It draws the
// device's display and console output, and reads keyboard and mouse input.
//
// The display is drawn in the top left corner of the terminal with the lower
// half block character. Every character cell shows two rows of pixels, the
// top row as the background color and the bottom row as the foreground color.
// Console output is shown to the right of the display.
//
// Input is read in raw mode with mouse reporting enabled. The raw bytes are
// decoded into Key, Arrow and Mouse values by the Decoder type. Mouse
// positions are converted to display positions with DisplayPosition().
package terminal
