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

package bridge_test

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/banglemu/banglemu/bridge"
	"github.com/banglemu/banglemu/curated"
	"github.com/banglemu/banglemu/router"
	"github.com/banglemu/banglemu/test"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// waitFor polls the condition until it is true or until a generous timeout
// has passed.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for condition")
		}
		time.Sleep(time.Millisecond)
	}
}

// start a bridge on a random port. the returned function stops the bridge
// and waits for Serve() to return.
func start(t *testing.T, r *router.Router) (*bridge.Bridge, func()) {
	t.Helper()

	b, err := bridge.Listen("localhost:0", r)
	test.DemandSuccess(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- b.Serve(ctx)
	}()

	return b, func() {
		cancel()
		test.ExpectSuccess(t, <-done)
	}
}

func dial(t *testing.T, b *bridge.Bridge) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", b.Addr().String())
	test.DemandSuccess(t, err)
	return conn
}

// collect console bytes from the router until n bytes have been received.
func collect(t *testing.T, r *router.Router, n int) string {
	t.Helper()

	var s []byte
	timeout := time.After(5 * time.Second)
	for len(s) < n {
		select {
		case d := <-r.Events():
			test.DemandEquality(t, d.Source, router.Console)
			s = append(s, d.Event.(router.ConsoleBytes).Data...)
		case <-timeout:
			t.Fatalf("timed out collecting console bytes (got %q)", s)
		}
	}
	return string(s)
}

func TestInputOrder(t *testing.T) {
	r := router.NewRouter(router.DefaultQueueSize)
	b, stop := start(t, r)
	defer stop()

	conn := dial(t, b)
	defer conn.Close()

	for _, s := range []string{"print(", "1+2", ");\n", "LED1.set();\n"} {
		_, err := conn.Write([]byte(s))
		test.DemandSuccess(t, err)
	}

	test.ExpectEquality(t, collect(t, r, 24), "print(1+2);\nLED1.set();\n")
}

func TestPublish(t *testing.T) {
	r := router.NewRouter(router.DefaultQueueSize)
	b, stop := start(t, r)
	defer stop()

	// no client is connected
	b.Publish([]byte("lost"))
	test.ExpectEquality(t, b.Dropped(), uint64(1))

	conn := dial(t, b)
	defer conn.Close()
	waitFor(t, b.Connected)

	b.Publish([]byte("hello "))
	b.Publish([]byte("world"))

	buf := make([]byte, 11)
	_, err := io.ReadFull(conn, buf)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(buf), "hello world")
}

func TestReplacement(t *testing.T) {
	r := router.NewRouter(router.DefaultQueueSize)
	b, stop := start(t, r)
	defer stop()

	first := dial(t, b)
	defer first.Close()
	waitFor(t, b.Connected)

	second := dial(t, b)
	defer second.Close()
	waitFor(t, func() bool { return b.Replaced() == 1 })

	// the first connection has been closed by the bridge
	_ = first.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, err := first.Read(make([]byte, 1))
	test.ExpectFailure(t, err)

	// output goes to the second connection
	b.Publish([]byte("ok"))
	buf := make([]byte, 2)
	_, err = io.ReadFull(second, buf)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(buf), "ok")

	// and input comes from it
	_, err = second.Write([]byte("x"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, collect(t, r, 1), "x")
}

func TestDisconnect(t *testing.T) {
	r := router.NewRouter(router.DefaultQueueSize)
	b, stop := start(t, r)
	defer stop()

	conn := dial(t, b)
	waitFor(t, b.Connected)

	conn.Close()
	waitFor(t, func() bool { return !b.Connected() })

	// a new client can connect and is not counted as a replacement
	conn = dial(t, b)
	defer conn.Close()
	waitFor(t, b.Connected)
	test.ExpectEquality(t, b.Replaced(), uint64(0))
}

func TestCloseFlushes(t *testing.T) {
	r := router.NewRouter(router.DefaultQueueSize)
	b, stop := start(t, r)
	defer stop()

	conn := dial(t, b)
	defer conn.Close()
	waitFor(t, b.Connected)

	for i := 0; i < 10; i++ {
		b.Publish([]byte("0123456789"))
	}
	test.ExpectSuccess(t, b.Close())

	// everything published before the close is received and then the
	// connection is closed
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	data, err := io.ReadAll(conn)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(data), 100)

	// no further connections are accepted
	_, err = net.DialTimeout("tcp", b.Addr().String(), time.Second)
	test.ExpectFailure(t, err)
}

func TestFlushWindow(t *testing.T) {
	r := router.NewRouter(router.DefaultQueueSize)
	b, stop := start(t, r)
	defer stop()

	// the client never reads so eventually the window fills and output is
	// dropped
	conn := dial(t, b)
	defer conn.Close()
	waitFor(t, b.Connected)

	chunk := make([]byte, 1<<16)
	for i := 0; i < 1000 && b.Dropped() == 0; i++ {
		b.Publish(chunk)
	}
	test.ExpectInequality(t, b.Dropped(), uint64(0))
}

func TestListenFailure(t *testing.T) {
	r := router.NewRouter(router.DefaultQueueSize)
	b, stop := start(t, r)
	defer stop()

	_, err := bridge.Listen(b.Addr().String(), r)
	test.ExpectSuccess(t, curated.Is(err, bridge.ListenFailed))
}
