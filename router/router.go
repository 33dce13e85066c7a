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

package router

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/banglemu/banglemu/logger"
)

// Source identifies where an event came from.
type Source string

// List of valid Source values.
const (
	Terminal Source = "terminal"
	Console  Source = "console"
	Ticker   Source = "tick"
	Signal   Source = "signal"
)

// DefaultQueueSize is the number of events that can be waiting for the
// consumer before a source blocks.
const DefaultQueueSize = 64

// Delivery is an event and the source it came from.
type Delivery struct {
	Source Source
	Event  Event
}

// Router merges the events from several sources into one stream.
type Router struct {
	queue chan Delivery

	// the time of the most recent tick and the time carried over from ticks
	// that could not be queued. only accessed by the ticker goroutine
	lastTick time.Time
	carried  time.Duration

	// number of ticks that were coalesced into a later tick
	coalesced atomic.Uint64
	delayed   logger.Every
}

// NewRouter is the preferred method of initialisation for the Router type. A
// size of zero or less uses DefaultQueueSize.
func NewRouter(size int) *Router {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Router{
		queue:   make(chan Delivery, size),
		delayed: logger.Every{N: 1000},
	}
}

// Events returns the stream of events. There should only ever be one
// consumer.
func (r *Router) Events() <-chan Delivery {
	return r.queue
}

// Push an event from the named source. Blocks until the event is queued or
// the context is cancelled.
func (r *Router) Push(ctx context.Context, src Source, ev Event) error {
	select {
	case r.queue <- Delivery{Source: src, Event: ev}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Coalesced returns the number of ticks that have been carried over into a
// later tick because the queue was full.
func (r *Router) Coalesced() uint64 {
	return r.coalesced.Load()
}

// RunTicker pushes a Tick event every interval until the context is
// cancelled. Only one ticker should be run for each router.
func (r *Router) RunTicker(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	return r.RunTicks(ctx, time.Now(), t.C)
}

// RunTicks pushes a Tick event for every time received on the channel. The
// elapsed time of the first tick is measured from start.
//
// Returns when the context is cancelled or when the channel is closed.
func (r *Router) RunTicks(ctx context.Context, start time.Time, ticks <-chan time.Time) error {
	r.lastTick = start
	r.carried = 0

	for {
		select {
		case <-ctx.Done():
			return nil
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			r.tick(now)
		}
	}
}

// tick queues a Tick event for the time elapsed since the last tick. returns
// false if the queue was full, in which case the time is carried over.
func (r *Router) tick(now time.Time) bool {
	elapsed := now.Sub(r.lastTick)
	if elapsed < 0 {
		elapsed = 0
	}
	r.lastTick = now
	r.carried += elapsed

	select {
	case r.queue <- Delivery{Source: Ticker, Event: Tick{Elapsed: r.carried}}:
		r.carried = 0
		return true
	default:
		r.coalesced.Add(1)
		logger.Logf(&r.delayed, "router", "tick delayed (%v carried)", r.carried)
		return false
	}
}
