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
	"io"

	"github.com/banglemu/banglemu/device"
)

// Headless implements the emulation.Renderer interface for when there is no
// terminal surface. Console output is copied to the writer unchanged and
// frames are ignored.
type Headless struct {
	w io.Writer
}

// NewHeadless is the preferred method of initialisation for the Headless type.
func NewHeadless(w io.Writer) *Headless {
	return &Headless{w: w}
}

// SetFrame implements the emulation.Renderer interface.
func (h *Headless) SetFrame(_ device.Frame) {
}

// AppendConsole implements the emulation.Renderer interface.
func (h *Headless) AppendConsole(data []byte) {
	_, _ = h.w.Write(data)
}
