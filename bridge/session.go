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
	"io"
	"net"
	"sync"
	"time"

	"github.com/banglemu/banglemu/logger"
	"github.com/banglemu/banglemu/router"
)

// session is a single client connection.
type session struct {
	b    *Bridge
	conn net.Conn

	// cancelled when the session is closed so that a blocked push to the
	// router is abandoned
	ctx    context.Context
	cancel context.CancelFunc

	out chan []byte

	// closed when the session should flush its output and close
	quit      chan struct{}
	finishing sync.Once

	closing sync.Once
}

// the maximum time spent flushing output when the session is finished.
const flushTimeout = time.Second

func newSession(b *Bridge, conn net.Conn) *session {
	s := &session{
		b:    b,
		conn: conn,
		out:  make(chan []byte, FlushWindow),
		quit: make(chan struct{}),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// close the session. safe to call more than once and from any goroutine.
func (s *session) close() {
	s.closing.Do(func() {
		s.cancel()
		_ = s.conn.Close()
		s.b.detach(s)
	})
}

// finish the session after writing any waiting output.
func (s *session) finish() {
	s.finishing.Do(func() {
		_ = s.conn.SetWriteDeadline(time.Now().Add(flushTimeout))
		close(s.quit)
	})
}

// read from the connection and push everything to the router.
func (s *session) read() {
	defer s.close()

	buf := make([]byte, readSize)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			if err := s.b.push.Push(s.ctx, router.Console, router.ConsoleBytes{Data: data}); err != nil {
				return
			}
		}

		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				logger.Logf(logger.Allow, "console", "%s disconnected", s.conn.RemoteAddr())
			case errors.Is(err, net.ErrClosed):
			default:
				logger.Logf(logger.Allow, "console", "read: %v", err)
			}
			return
		}
	}
}

// write output to the connection until the session is closed.
func (s *session) write() {
	defer s.close()

	for {
		select {
		case <-s.ctx.Done():
			return
		case d := <-s.out:
			if !s.send(d) {
				return
			}
		case <-s.quit:
			for {
				select {
				case d := <-s.out:
					if !s.send(d) {
						return
					}
				default:
					return
				}
			}
		}
	}
}

// send data to the client. returns false if the connection has failed.
func (s *session) send(d []byte) bool {
	if _, err := s.conn.Write(d); err != nil {
		if !errors.Is(err, net.ErrClosed) {
			logger.Logf(logger.Allow, "console", "write: %v", err)
		}
		return false
	}
	return true
}
