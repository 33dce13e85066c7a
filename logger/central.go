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

package logger

import (
	"io"
)

// the log shared by every package in the emulator.
var central = NewLogger(maxCentral)

// maximum number of entries in the central log.
const maxCentral = 256

// Log adds an entry to the central log.
func Log(perm Permission, tag string, detail any) {
	central.Log(perm, tag, detail)
}

// Logf adds a formatted entry to the central log.
func Logf(perm Permission, tag string, format string, args ...any) {
	central.Logf(perm, tag, format, args...)
}

// Tail writes the last N entries of the central log to io.Writer. Used to
// show the events leading up to an error when the emulator exits.
func Tail(output io.Writer, number int) {
	central.Tail(output, number)
}

// SetEcho prints entries in the central log to io.Writer as they are made.
// In HEADLESS mode this is stderr. In RUN mode the terminal is drawn by the
// emulator and so the echo can only go to a file.
func SetEcho(output io.Writer) {
	central.SetEcho(output)
}
