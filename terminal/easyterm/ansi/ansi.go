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

// Package ansi defines the ANSI control sequences used to draw the terminal
// surface.
package ansi

import (
	"fmt"
	"strings"
)

// ANSI target.
const (
	targetPen   = 3
	targetPaper = 4
)

// NormalPen is the CSI sequence for regular text.
const NormalPen = "\033[m"

// ClearScreen is the CSI sequence to clear the screen and move the cursor to
// the top left.
const ClearScreen = "\033[2J\033[H"

// ClearLine is the CSI sequence to clear from the cursor to the end of the
// line.
const ClearLine = "\033[K"

// Cursor visibility.
const (
	HideCursor = "\033[?25l"
	ShowCursor = "\033[?25h"
)

// Alternate screen buffer.
const (
	AltScreenOn  = "\033[?1049h"
	AltScreenOff = "\033[?1049l"
)

// Mouse reporting. Button presses, releases and motion while a button is
// held are reported with the SGR extended encoding.
const (
	MouseOn  = "\033[?1000h\033[?1002h\033[?1006h"
	MouseOff = "\033[?1006l\033[?1002l\033[?1000l"
)

// CursorPos is the CSI sequence to move the cursor to the row and column.
// Both are one-based.
func CursorPos(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}

// Color is one of the eight standard ANSI colors. Bit zero is red, bit one is
// green and bit two is blue.
type Color uint8

// List of named Color values.
const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// ColorBuild creates the CSI sequence for the pen and paper colors.
func ColorBuild(pen, paper Color) string {
	s := strings.Builder{}
	s.Grow(10)
	fmt.Fprintf(&s, "\033[%d%d;%d%dm", targetPen, pen&0x07, targetPaper, paper&0x07)
	return s.String()
}

// PenBuild creates the CSI sequence for the pen color only.
func PenBuild(pen Color) string {
	return fmt.Sprintf("\033[%d%dm", targetPen, pen&0x07)
}
