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

package ansi_test

import (
	"testing"

	"github.com/banglemu/banglemu/terminal/easyterm/ansi"
	"github.com/banglemu/banglemu/test"
)

func TestColorBuild(t *testing.T) {
	test.ExpectEquality(t, ansi.ColorBuild(ansi.Red, ansi.Blue), "\033[31;44m")
	test.ExpectEquality(t, ansi.ColorBuild(ansi.White, ansi.Black), "\033[37;40m")

	// only the lower three bits are used
	test.ExpectEquality(t, ansi.ColorBuild(ansi.Color(0x0a), ansi.Color(0xff)), "\033[32;47m")

	test.ExpectEquality(t, ansi.PenBuild(ansi.Cyan), "\033[36m")
}

func TestCursorPos(t *testing.T) {
	test.ExpectEquality(t, ansi.CursorPos(1, 1), "\033[1;1H")
	test.ExpectEquality(t, ansi.CursorPos(20, 180), "\033[20;180H")
}
