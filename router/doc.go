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

// Package router merges the events from every input source into a single
// ordered stream. The stream is consumed by the emulation loop, which is the
// only goroutine that is allowed to access the device.
//
// Sources push events with Push(). Events are delivered in the order they
// arrive at the router. No source has priority over another but the order of
// events from any single source is preserved.
//
// Push() blocks until the event has been queued or the context is cancelled.
// The exception is the tick source started with RunTicker(). The tick source
// never blocks: if the queue is full when a tick is due, the elapsed time is
// carried into the next tick. No time is lost and the durations of
// consecutive ticks never overlap.
package router
