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

package userinput

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/banglemu/banglemu/router"
	"github.com/banglemu/banglemu/terminal"
	"github.com/banglemu/banglemu/terminal/easyterm"
)

// DefaultHold is the time after the last key repeat that the button is
// released.
const DefaultHold = 300 * time.Millisecond

// Pusher is the part of the router that the controllers require.
type Pusher interface {
	Push(ctx context.Context, src router.Source, ev router.Event) error
}

// swipe text injected into the console for each arrow key.
var swipes = map[byte]string{
	easyterm.CursorBackward: swipe(-1, 0),
	easyterm.CursorForward:  swipe(1, 0),
	easyterm.CursorUp:       swipe(0, -1),
	easyterm.CursorDown:     swipe(0, 1),
}

func swipe(dx, dy int) string {
	return fmt.Sprintf("\x10Bangle.emit('swipe', %d, %d);\n", dx, dy)
}

// Controllers keeps track of the pointer and button state between inputs.
type Controllers struct {
	ctx  context.Context
	push Pusher

	// Hold is the time after the last key repeat that the button is
	// released. Changes take effect on the next key press
	Hold time.Duration

	// pointer is pressed inside the display
	pointer bool

	// the button and the timer that releases it. accessed by the timer
	// goroutine
	crit    sync.Mutex
	button  bool
	release *time.Timer
}

// NewControllers is the preferred method of initialisation for the
// Controllers type. Events are pushed with the context, including the button
// release that happens after a key press.
func NewControllers(ctx context.Context, push Pusher) *Controllers {
	return &Controllers{
		ctx:  ctx,
		push: push,
		Hold: DefaultHold,
	}
}

// Handle a single input from the terminal.
func (c *Controllers) Handle(inp terminal.Input) error {
	switch inp := inp.(type) {
	case terminal.Key:
		return c.keyboard(inp)
	case terminal.Arrow:
		if s, ok := swipes[inp.Dir]; ok {
			return c.push.Push(c.ctx, router.Terminal, router.ConsoleBytes{Data: []byte(s)})
		}
	case terminal.Mouse:
		return c.mouse(inp)
	}
	return nil
}

func (c *Controllers) keyboard(k terminal.Key) error {
	switch k.Rune {
	case 'q', easyterm.KeyEsc, easyterm.KeyInterrupt:
		return c.push.Push(c.ctx, router.Terminal, router.Quit{})
	case easyterm.KeyCarriageReturn, easyterm.KeyLineFeed, ' ':
		return c.pressButton()
	}
	return nil
}

func (c *Controllers) pressButton() error {
	c.crit.Lock()
	defer c.crit.Unlock()

	// a repeat of the key extends the press
	if c.release != nil {
		c.release.Stop()
	}
	var tm *time.Timer
	tm = time.AfterFunc(c.Hold, func() {
		c.releaseButton(tm)
	})
	c.release = tm

	if c.button {
		return nil
	}
	c.button = true
	return c.push.Push(c.ctx, router.Terminal, router.ButtonEdge{Pressed: true})
}

// releaseButton is called by the timer. a timer that fired while a key
// repeat was arming its replacement does nothing.
func (c *Controllers) releaseButton(tm *time.Timer) {
	c.crit.Lock()
	defer c.crit.Unlock()

	if c.release != tm || !c.button {
		return
	}
	c.button = false
	c.release = nil

	// the context is only done during shutdown
	_ = c.push.Push(c.ctx, router.Terminal, router.ButtonEdge{Pressed: false})
}

// Stop the pending button release, if there is one.
func (c *Controllers) Stop() {
	c.crit.Lock()
	defer c.crit.Unlock()
	if c.release != nil {
		c.release.Stop()
		c.release = nil
	}
}

func (c *Controllers) mouse(m terminal.Mouse) error {
	x, y, inside := terminal.DisplayPosition(m.Col, m.Row)
	now := time.Now()

	switch m.Action {
	case terminal.MousePress:
		if !inside || c.pointer {
			return nil
		}
		c.pointer = true
		return c.push.Push(c.ctx, router.Terminal, router.PointerDown{X: x, Y: y, T: now})

	case terminal.MouseDrag:
		if !c.pointer {
			return nil
		}
		return c.push.Push(c.ctx, router.Terminal, router.PointerMove{X: x, Y: y, T: now})

	case terminal.MouseRelease:
		if !c.pointer {
			return nil
		}
		c.pointer = false
		return c.push.Push(c.ctx, router.Terminal, router.PointerUp{X: x, Y: y, T: now})
	}

	return nil
}
