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

package easyterm

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Geometry is the size of the terminal in characters.
type Geometry struct {
	Rows int
	Cols int
}

// Terminal is a posix terminal.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr unix.Termios
	rawAttr unix.Termios

	crit     sync.Mutex
	geometry Geometry

	// called after the geometry has changed
	onResize func(Geometry)

	sigwinch chan os.Signal
	done     chan struct{}
}

// Initialise the terminal. The onResize function is called, from a different
// goroutine, whenever the geometry of the output terminal changes. It can be
// nil.
func (pt *Terminal) Initialise(input, output *os.File, onResize func(Geometry)) error {
	if input == nil {
		return fmt.Errorf("easyterm: terminal requires an input file")
	}
	if output == nil {
		return fmt.Errorf("easyterm: terminal requires an output file")
	}

	pt.input = input
	pt.output = output
	pt.onResize = onResize

	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}

	// raw mode is the canonical mode with the raw flags applied
	pt.rawAttr = pt.canAttr
	termios.Cfmakeraw(&pt.rawAttr)

	if err := pt.UpdateGeometry(); err != nil {
		return err
	}

	pt.sigwinch = make(chan os.Signal, 1)
	pt.done = make(chan struct{})
	signal.Notify(pt.sigwinch, syscall.SIGWINCH)

	go func() {
		for {
			select {
			case <-pt.sigwinch:
				if err := pt.UpdateGeometry(); err == nil && pt.onResize != nil {
					pt.onResize(pt.Geometry())
				}
			case <-pt.done:
				return
			}
		}
	}()

	return nil
}

// CleanUp restores the terminal to canonical mode and stops the resize
// handler.
func (pt *Terminal) CleanUp() error {
	signal.Stop(pt.sigwinch)
	close(pt.done)
	return pt.CanonicalMode()
}

// UpdateGeometry reads the current dimensions of the output terminal.
func (pt *Terminal) UpdateGeometry() error {
	ws, err := unix.IoctlGetWinsize(int(pt.output.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return fmt.Errorf("easyterm: updating terminal geometry: %w", err)
	}

	pt.crit.Lock()
	defer pt.crit.Unlock()
	pt.geometry = Geometry{Rows: int(ws.Row), Cols: int(ws.Col)}

	return nil
}

// Geometry returns the most recent dimensions of the output terminal.
func (pt *Terminal) Geometry() Geometry {
	pt.crit.Lock()
	defer pt.crit.Unlock()
	return pt.geometry
}

// CanonicalMode puts the terminal into normal, everyday canonical mode.
func (pt *Terminal) CanonicalMode() error {
	return termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.canAttr)
}

// RawMode puts the terminal into raw mode.
func (pt *Terminal) RawMode() error {
	return termios.Tcsetattr(pt.input.Fd(), termios.TCIFLUSH, &pt.rawAttr)
}

// Flush discards any unread input and unwritten output.
func (pt *Terminal) Flush() error {
	if err := termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH); err != nil {
		return err
	}
	return termios.Tcflush(pt.output.Fd(), termios.TCOFLUSH)
}

// Write implements the io.Writer interface.
func (pt *Terminal) Write(p []byte) (int, error) {
	return pt.output.Write(p)
}

// Read implements the io.Reader interface.
func (pt *Terminal) Read(p []byte) (int, error) {
	return pt.input.Read(p)
}

// ReadTimeout waits for input for up to the timeout duration before reading.
// Returns zero bytes and no error if there is no input before the timeout.
func (pt *Terminal) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	fds := []unix.PollFd{{Fd: int32(pt.input.Fd()), Events: unix.POLLIN}}

	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("easyterm: %w", err)
	}
	if n == 0 {
		return 0, nil
	}

	return pt.input.Read(p)
}
