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
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/banglemu/banglemu/terminal/easyterm"
)

// Input is implemented by every type of decoded terminal input.
type Input interface {
	isInput()
}

// Key is a single key press.
type Key struct {
	Rune rune
}

// Arrow is a cursor key press. Dir is one of the easyterm.Cursor* values.
type Arrow struct {
	Dir byte
}

// MouseAction is the type of a mouse event.
type MouseAction int

// List of valid MouseAction values.
const (
	MousePress MouseAction = iota
	MouseDrag
	MouseRelease
)

// Mouse is a mouse event. Col and Row are one-based character cells.
type Mouse struct {
	Action MouseAction
	Button int
	Col    int
	Row    int
}

func (Key) isInput()   {}
func (Arrow) isInput() {}
func (Mouse) isInput() {}

// SGR mouse reporting flags.
const (
	mouseButtonMask = 0x03
	mouseMotion     = 0x20
	mouseWheel      = 0x40
)

// the longest escape sequence the decoder will wait for before discarding it.
const maxSequence = 32

// Decoder converts bytes read from a terminal in raw mode into Input values.
// Sequences can be split over several calls to Decode().
type Decoder struct {
	pending []byte
}

// Decode the bytes and return every complete Input. Incomplete sequences are
// kept until the next call. A lone escape character at the end of the bytes
// is decoded as the escape key.
func (d *Decoder) Decode(b []byte) []Input {
	d.pending = append(d.pending, b...)

	var inp []Input
	for len(d.pending) > 0 {
		in, n := decodeOne(d.pending)
		if n == 0 {
			// incomplete sequence
			if len(d.pending) == 1 && d.pending[0] == easyterm.KeyEsc {
				inp = append(inp, Key{Rune: easyterm.KeyEsc})
				d.pending = d.pending[:0]
			} else if len(d.pending) > maxSequence {
				d.pending = d.pending[:0]
			}
			break // for loop
		}

		if in != nil {
			inp = append(inp, in)
		}
		d.pending = d.pending[n:]
	}

	return inp
}

// decodeOne decodes the first Input in the bytes. returns the number of bytes
// used. a nil Input with a non-zero length is a sequence that was recognised
// but ignored. a length of zero means the sequence is incomplete.
func decodeOne(b []byte) (Input, int) {
	if b[0] != easyterm.KeyEsc {
		if !utf8.FullRune(b) {
			return nil, 0
		}
		r, n := utf8.DecodeRune(b)
		return Key{Rune: r}, n
	}

	if len(b) < 2 {
		return nil, 0
	}

	switch b[1] {
	case easyterm.EscSS3:
		if len(b) < 3 {
			return nil, 0
		}
		if isCursor(b[2]) {
			return Arrow{Dir: b[2]}, 3
		}
		return nil, 3

	case easyterm.EscCSI:
		if len(b) < 3 {
			return nil, 0
		}
		if b[2] == '<' {
			return decodeMouse(b)
		}

		// parameters and intermediate bytes are followed by a final byte
		for i := 2; i < len(b); i++ {
			if b[i] >= 0x40 && b[i] <= 0x7e {
				if i == 2 && isCursor(b[i]) {
					return Arrow{Dir: b[i]}, 3
				}
				return nil, i + 1
			}
		}
		return nil, 0
	}

	// escape followed by something else is the escape key
	return Key{Rune: easyterm.KeyEsc}, 1
}

func isCursor(b byte) bool {
	return b == easyterm.CursorUp || b == easyterm.CursorDown ||
		b == easyterm.CursorForward || b == easyterm.CursorBackward
}

// decodeMouse decodes an SGR mouse sequence: ESC [ < button ; col ; row M
// for a press or motion and the same terminated with m for a release.
func decodeMouse(b []byte) (Input, int) {
	end := -1
	for i := 3; i < len(b); i++ {
		if b[i] == 'M' || b[i] == 'm' {
			end = i
			break // for loop
		}
	}
	if end == -1 {
		return nil, 0
	}

	params := strings.Split(string(b[3:end]), ";")
	if len(params) != 3 {
		return nil, end + 1
	}

	var v [3]int
	for i, p := range params {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, end + 1
		}
		v[i] = n
	}

	// wheel events are not used
	if v[0]&mouseWheel != 0 {
		return nil, end + 1
	}

	m := Mouse{
		Button: v[0] & mouseButtonMask,
		Col:    v[1],
		Row:    v[2],
	}

	switch {
	case b[end] == 'm':
		m.Action = MouseRelease
	case v[0]&mouseMotion != 0:
		m.Action = MouseDrag
	default:
		m.Action = MousePress
	}

	return m, end + 1
}
