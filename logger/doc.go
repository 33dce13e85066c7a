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

// Package logger is the central log for the emulator. Log entries are made
// up of a tag and a detail string. The tag identifies the part of the emulator
// that made the entry, for example "device" or "console". Adjacent entries that
// are identical are collapsed into a single entry with a repeat count.
//
// The central log is bounded and only the most recent entries are kept. The
// Tail() function is used on exit, after an error, to show the context of the
// error.
//
// Log entries can be echoed to an io.Writer as they are made with SetEcho().
// The terminal surface takes over the terminal while it is running, so in
// that mode the echo will normally be directed to a file.
package logger
