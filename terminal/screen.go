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

package terminal

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/banglemu/banglemu/device"
	"github.com/banglemu/banglemu/terminal/easyterm"
	"github.com/banglemu/banglemu/terminal/easyterm/ansi"
)

// the character used to draw two rows of pixels in one character cell. the
// top pixel is the paper color and the bottom pixel is the pen color.
const halfBlock = "▄"

// DisplayRows is the number of terminal rows used to draw the whole display.
const DisplayRows = device.Height / 2

// the number of columns between the display and the console pane.
const gutter = 1

// the console pane is not drawn if it would be narrower than this.
const minConsoleWidth = 10

// MaxConsoleLines is the number of lines of console output kept for drawing.
const MaxConsoleLines = 500

// DisplayPosition converts a one-based character cell to a display pixel
// position. The position is clamped to the display. The inside return value
// is false if the cell is outside the area used by the display.
func DisplayPosition(col, row int) (x int, y int, inside bool) {
	x = col - 1
	y = (row - 1) * 2
	inside = x >= 0 && x < device.Width && y >= 0 && y < device.Height
	return clamp(x, device.Width-1), clamp(y, device.Height-1), inside
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// Screen implements the emulation.Renderer interface. It keeps the most
// recent frame and the console output, and draws them to a terminal with
// Draw(). SetFrame() and AppendConsole() can be called from a different
// goroutine to Draw().
type Screen struct {
	crit sync.Mutex

	frame     device.Frame
	haveFrame bool

	// complete console lines and the line being built
	lines   []string
	current strings.Builder

	// true while skipping an escape sequence in the console output
	escaping bool

	changed chan struct{}
}

// NewScreen is the preferred method of initialisation for the Screen type.
func NewScreen() *Screen {
	return &Screen{
		changed: make(chan struct{}, 1),
	}
}

// Changed returns a channel that receives a value after SetFrame() or
// AppendConsole() have been called.
func (scr *Screen) Changed() <-chan struct{} {
	return scr.changed
}

func (scr *Screen) notify() {
	select {
	case scr.changed <- struct{}{}:
	default:
	}
}

// SetFrame implements the emulation.Renderer interface.
func (scr *Screen) SetFrame(frame device.Frame) {
	scr.crit.Lock()
	scr.frame = frame
	scr.haveFrame = true
	scr.crit.Unlock()
	scr.notify()
}

// AppendConsole implements the emulation.Renderer interface. Carriage
// returns, escape sequences and other control characters in the data are
// not drawn.
func (scr *Screen) AppendConsole(data []byte) {
	scr.crit.Lock()
	for len(data) > 0 {
		r, n := utf8.DecodeRune(data)
		data = data[n:]

		if scr.escaping {
			// the sequence ends with a letter
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				scr.escaping = false
			}
			continue // for loop
		}

		switch {
		case r == easyterm.KeyEsc:
			scr.escaping = true
		case r == '\n':
			scr.lines = append(scr.lines, scr.current.String())
			scr.current.Reset()
		case r == '\t':
			scr.current.WriteString("    ")
		case r < 0x20 || r == 0x7f:
		default:
			scr.current.WriteRune(r)
		}
	}

	if len(scr.lines) > MaxConsoleLines {
		scr.lines = append(scr.lines[:0], scr.lines[len(scr.lines)-MaxConsoleLines:]...)
	}
	scr.crit.Unlock()
	scr.notify()
}

// Console returns the most recent lines of console output, including the
// incomplete last line if there is one.
func (scr *Screen) Console(number int) []string {
	scr.crit.Lock()
	defer scr.crit.Unlock()

	l := scr.lines
	if scr.current.Len() > 0 {
		l = append(l[:len(l):len(l)], scr.current.String())
	}
	if len(l) > number {
		l = l[len(l)-number:]
	}

	c := make([]string, len(l))
	copy(c, l)
	return c
}

// Draw the display and the console pane to the writer for a terminal of the
// given geometry. The output is written with a single call to Write().
func (scr *Screen) Draw(w io.Writer, geom easyterm.Geometry) error {
	var b bytes.Buffer

	scr.crit.Lock()
	haveFrame := scr.haveFrame
	frame := scr.frame
	scr.crit.Unlock()

	cols := min(device.Width, geom.Cols)
	rows := min(DisplayRows, geom.Rows)

	if haveFrame {
		for row := 0; row < rows; row++ {
			b.WriteString(ansi.CursorPos(row+1, 1))
			drawRow(&b, &frame, row, cols)
		}
		b.WriteString(ansi.NormalPen)
	}

	consoleCol := device.Width + gutter + 1
	consoleWidth := geom.Cols - consoleCol + 1
	if consoleWidth >= minConsoleWidth && geom.Rows > 0 {
		lines := scr.Console(geom.Rows)
		for row := 0; row < geom.Rows; row++ {
			b.WriteString(ansi.CursorPos(row+1, consoleCol))

			// console lines are aligned with the bottom of the terminal
			idx := row - (geom.Rows - len(lines))
			if idx >= 0 {
				b.WriteString(truncate(lines[idx], consoleWidth))
			}
			b.WriteString(ansi.ClearLine)
		}
	}

	_, err := w.Write(b.Bytes())
	return err
}

// drawRow draws a row of character cells from two lines of the frame. the
// color sequence is only written when the colors change.
func drawRow(b *bytes.Buffer, frame *device.Frame, row int, cols int) {
	top := &frame.Pixels[row*2]
	bottom := &frame.Pixels[row*2+1]

	var pen, paper device.Color
	for x := 0; x < cols; x++ {
		if x == 0 || pen != bottom[x] || paper != top[x] {
			pen = bottom[x]
			paper = top[x]
			b.WriteString(ansi.ColorBuild(ansi.Color(pen), ansi.Color(paper)))
		}
		b.WriteString(halfBlock)
	}
}

// truncate the string to the number of runes.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width])
}
