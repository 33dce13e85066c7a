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

package terminal_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/banglemu/banglemu/device"
	"github.com/banglemu/banglemu/terminal"
	"github.com/banglemu/banglemu/terminal/easyterm"
	"github.com/banglemu/banglemu/terminal/easyterm/ansi"
	"github.com/banglemu/banglemu/test"
)

func TestConsoleLines(t *testing.T) {
	scr := terminal.NewScreen()

	scr.AppendConsole([]byte("hello\r\nwor"))
	scr.AppendConsole([]byte("ld\r\n>"))
	test.ExpectEquality(t, fmt.Sprint(scr.Console(10)), "[hello world >]")
	test.ExpectEquality(t, fmt.Sprint(scr.Console(2)), "[world >]")

	// escape sequences are removed
	scr.AppendConsole([]byte("\033[J\033[1;32mok\n"))
	test.ExpectEquality(t, fmt.Sprint(scr.Console(1)), "[>ok]")

	for i := 0; i < terminal.MaxConsoleLines+10; i++ {
		scr.AppendConsole([]byte("x\n"))
	}
	test.ExpectEquality(t, len(scr.Console(terminal.MaxConsoleLines*2)), terminal.MaxConsoleLines)
}

func TestChanged(t *testing.T) {
	scr := terminal.NewScreen()

	select {
	case <-scr.Changed():
		t.Fatalf("unexpected change")
	default:
	}

	scr.SetFrame(device.Frame{})
	scr.AppendConsole([]byte("x"))

	select {
	case <-scr.Changed():
	default:
		t.Fatalf("expected change")
	}
}

func TestDraw(t *testing.T) {
	scr := terminal.NewScreen()
	w := &test.Writer{}

	// nothing to draw without a frame and no room for the console
	test.DemandSuccess(t, scr.Draw(w, easyterm.Geometry{Rows: 10, Cols: 20}))
	test.ExpectEquality(t, w.String(), "")

	var frame device.Frame
	frame.Pixels[0][0] = device.Color(ansi.Red)
	frame.Pixels[1][0] = device.Color(ansi.Blue)
	scr.SetFrame(frame)

	w.Clear()
	test.DemandSuccess(t, scr.Draw(w, easyterm.Geometry{Rows: 1, Cols: 3}))

	// the top pixel is the paper and the bottom pixel is the pen. the color
	// changes after the first cell and then stays the same
	expected := ansi.CursorPos(1, 1) +
		ansi.ColorBuild(ansi.Blue, ansi.Red) + "▄" +
		ansi.ColorBuild(ansi.Black, ansi.Black) + "▄▄" +
		ansi.NormalPen
	test.ExpectEquality(t, w.String(), expected)
}

func TestDrawConsole(t *testing.T) {
	scr := terminal.NewScreen()
	scr.AppendConsole([]byte("first\nsecond line is long\n"))

	w := &test.Writer{}
	cols := device.Width + 1 + 10
	test.DemandSuccess(t, scr.Draw(w, easyterm.Geometry{Rows: 3, Cols: cols}))

	s := w.String()

	// the console is aligned to the bottom of the terminal and truncated to
	// the width of the pane
	test.ExpectSuccess(t, strings.Contains(s, ansi.CursorPos(1, device.Width+2)+ansi.ClearLine))
	test.ExpectSuccess(t, strings.Contains(s, ansi.CursorPos(2, device.Width+2)+"first"+ansi.ClearLine))
	test.ExpectSuccess(t, strings.Contains(s, ansi.CursorPos(3, device.Width+2)+"second lin"+ansi.ClearLine))
}

func TestHeadless(t *testing.T) {
	w := &test.Writer{}
	h := terminal.NewHeadless(w)
	h.SetFrame(device.Frame{})
	h.AppendConsole([]byte("booted\r\n"))
	test.ExpectEquality(t, w.String(), "booted\r\n")
}
