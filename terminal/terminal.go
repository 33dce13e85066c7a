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
	"context"
	"os"
	"time"

	"github.com/banglemu/banglemu/curated"
	"github.com/banglemu/banglemu/logger"
	"github.com/banglemu/banglemu/terminal/easyterm"
	"github.com/banglemu/banglemu/terminal/easyterm/ansi"
)

// Sentinel error returned when the terminal cannot be put into raw mode.
const (
	Unavailable = "terminal: not available: %v"
)

// the shortest time between redraws.
const redrawInterval = time.Second / 30

// how long a read waits for input before checking the context.
const readTimeout = 100 * time.Millisecond

// Terminal is the interactive terminal surface. It draws a Screen and reads
// input from the user.
type Terminal struct {
	term   easyterm.Terminal
	screen *Screen
	resize chan struct{}
}

// Open the terminal. The terminal is put into raw mode, switched to the
// alternate screen and mouse reporting is enabled. Close() restores the
// terminal.
func Open(input, output *os.File) (*Terminal, error) {
	t := &Terminal{
		screen: NewScreen(),
		resize: make(chan struct{}, 1),
	}

	err := t.term.Initialise(input, output, func(_ easyterm.Geometry) {
		select {
		case t.resize <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return nil, curated.Errorf(Unavailable, err)
	}

	if err := t.term.RawMode(); err != nil {
		_ = t.term.CleanUp()
		return nil, curated.Errorf(Unavailable, err)
	}

	_, _ = t.term.Write([]byte(ansi.AltScreenOn + ansi.HideCursor + ansi.MouseOn + ansi.ClearScreen))

	return t, nil
}

// Close restores the terminal to the state it was in before Open().
func (t *Terminal) Close() error {
	_, _ = t.term.Write([]byte(ansi.MouseOff + ansi.NormalPen + ansi.ShowCursor + ansi.AltScreenOff))
	return t.term.CleanUp()
}

// Screen returns the Screen drawn by the terminal.
func (t *Terminal) Screen() *Screen {
	return t.screen
}

// Run draws the screen whenever it changes or the terminal is resized. Draws
// are limited to thirty per second. Returns when the context is done.
func (t *Terminal) Run(ctx context.Context) error {
	limit := time.NewTicker(redrawInterval)
	defer limit.Stop()

	wipe := true
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.resize:
			wipe = true
		case <-t.screen.Changed():
		}

		// wait for the rate limiter
		select {
		case <-ctx.Done():
			return nil
		case <-limit.C:
		}

		if wipe {
			_, _ = t.term.Write([]byte(ansi.ClearScreen))
			wipe = false
		}

		if err := t.screen.Draw(&t.term, t.term.Geometry()); err != nil {
			logger.Log(logger.Allow, "terminal", err)
		}
	}
}

// ReadInput reads from the terminal and calls the function for every decoded
// Input. Returns when the context is done, on a read error, or when the
// function returns an error.
func (t *Terminal) ReadInput(ctx context.Context, f func(Input) error) error {
	var dec Decoder
	b := make([]byte, 256)

	for ctx.Err() == nil {
		n, err := t.term.ReadTimeout(b, readTimeout)
		if err != nil {
			return curated.Errorf("terminal: %v", err)
		}

		for _, inp := range dec.Decode(b[:n]) {
			if err := f(inp); err != nil {
				return err
			}
		}
	}

	return nil
}
