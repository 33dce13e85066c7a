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

// Package statsview serves graphical runtime statistics over HTTP. The server
// is only available when the program is built with the statsview build tag.
// Without the tag, Available() returns false and Launch() does nothing.
//
// The statistics are provided by github.com/go-echarts/statsview and once
// launched are viewable at:
//
//	localhost:12600/debug/statsview
//
// Go's pprof statistics are available at:
//
//	localhost:12600/debug/pprof/
package statsview

// DefaultAddress of the statistics server.
const DefaultAddress = "localhost:12600"

const url = "/debug/statsview"
