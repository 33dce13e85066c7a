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

package bridge

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/banglemu/banglemu/curated"
	"github.com/banglemu/banglemu/logger"
	"github.com/banglemu/banglemu/metrics"
	"github.com/banglemu/banglemu/router"
)

// Sentinal errors.
const (
	ListenFailed = "console: cannot listen on %s: %v"
)

// DefaultAddress is the address the bridge listens on by default.
const DefaultAddress = "localhost:37026"

// FlushWindow is the number of output messages that can be waiting to be
// written to the client.
const FlushWindow = 64

// size of the buffer used to read from the client.
const readSize = 4096

// Pusher is the part of the router that the bridge requires.
type Pusher interface {
	Push(ctx context.Context, src router.Source, ev router.Event) error
}

// Bridge relays the console between the device and a remote client.
type Bridge struct {
	ln   net.Listener
	push Pusher

	metrics *metrics.Metrics

	crit   sync.Mutex
	active *session
	closed bool

	// session goroutines
	wg sync.WaitGroup

	replaced atomic.Uint64
	dropped  atomic.Uint64
	dropLog  logger.Every
}

// Listen is the preferred method of initialisation for the Bridge type. An
// error is returned if the address cannot be bound.
func Listen(addr string, push Pusher) (*Bridge, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, curated.Errorf(ListenFailed, addr, err)
	}

	logger.Logf(logger.Allow, "console", "listening on %s", ln.Addr())

	return &Bridge{
		ln:      ln,
		push:    push,
		dropLog: logger.Every{N: 100},
	}, nil
}

// SetMetrics instruments the bridge. Should be called before Serve().
func (b *Bridge) SetMetrics(m *metrics.Metrics) {
	b.metrics = m
}

// Addr returns the address the bridge is listening on.
func (b *Bridge) Addr() net.Addr {
	return b.ln.Addr()
}

// Replaced returns the number of connections that have been replaced by a
// newer connection.
func (b *Bridge) Replaced() uint64 {
	return b.replaced.Load()
}

// Dropped returns the number of output messages that have been dropped.
func (b *Bridge) Dropped() uint64 {
	return b.dropped.Load()
}

// Connected returns true if a client is connected.
func (b *Bridge) Connected() bool {
	b.crit.Lock()
	defer b.crit.Unlock()
	return b.active != nil
}

// Serve accepts connections until the bridge is closed or the context is
// cancelled. Returns once every connection has been closed.
func (b *Bridge) Serve(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = b.Close()
		case <-done:
		}
	}()

	for {
		conn, err := b.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break // for loop
			}
			logger.Logf(logger.Allow, "console", "accept: %v", err)

			// don't spin on a persistent error
			time.Sleep(10 * time.Millisecond)
			continue // for loop
		}

		b.attach(conn)
	}

	b.wg.Wait()

	return nil
}

// attach makes the connection the active session, replacing any existing
// session.
func (b *Bridge) attach(conn net.Conn) {
	s := newSession(b, conn)

	b.crit.Lock()
	if b.closed {
		b.crit.Unlock()
		s.cancel()
		_ = conn.Close()
		return
	}
	old := b.active
	b.active = s
	b.crit.Unlock()

	if old != nil {
		old.close()
		b.replaced.Add(1)
		b.metrics.Replaced()
		logger.Logf(logger.Allow, "console", "%s replaced by %s", old.conn.RemoteAddr(), conn.RemoteAddr())
	} else {
		logger.Logf(logger.Allow, "console", "%s connected", conn.RemoteAddr())
	}

	b.metrics.ClientConnected()

	b.wg.Add(2)
	go func() {
		defer b.wg.Done()
		s.read()
	}()
	go func() {
		defer b.wg.Done()
		s.write()
	}()
}

// detach is called by a session when it closes.
func (b *Bridge) detach(s *session) {
	b.crit.Lock()
	if b.active == s {
		b.active = nil
	}
	b.crit.Unlock()

	b.metrics.ClientDisconnected()
}

// Publish output from the device to the connected client. The data is copied
// and so can be reused by the caller. Never blocks.
func (b *Bridge) Publish(data []byte) {
	if len(data) == 0 {
		return
	}

	b.crit.Lock()
	s := b.active
	b.crit.Unlock()

	if s == nil {
		b.drop()
		return
	}

	d := make([]byte, len(data))
	copy(d, data)

	select {
	case s.out <- d:
	default:
		b.drop()
	}
}

func (b *Bridge) drop() {
	n := b.dropped.Add(1)
	b.metrics.Dropped()
	logger.Logf(&b.dropLog, "console", "output dropped (%d messages)", n)
}

// Close the listener. Output waiting to be written to the active connection
// is flushed before the connection is closed. Does not wait for Serve() to
// return.
func (b *Bridge) Close() error {
	b.crit.Lock()
	if b.closed {
		b.crit.Unlock()
		return nil
	}
	b.closed = true
	s := b.active
	b.crit.Unlock()

	if s != nil {
		s.finish()
	}

	err := b.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
