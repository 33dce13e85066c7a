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

package logger

import "sync/atomic"

// Permission implementations indicate whether a log request should create a
// new log entry.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (_ allow) AllowLogging() bool {
	return true
}

// Allow is the Permission to use when a log entry should always be made.
var Allow Permission = allow{}

// Every is a Permission that allows the first log request and then one in
// every N requests after that. Useful for events that can happen many times a
// second, such as dropped output. A value of N less than two allows every
// request.
type Every struct {
	N     uint64
	count atomic.Uint64
}

// AllowLogging implements the Permission interface.
func (e *Every) AllowLogging() bool {
	c := e.count.Add(1) - 1
	if e.N < 2 {
		return true
	}
	return c%e.N == 0
}
