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

// Package assert contains runtime assertions that are only active when the
// "assertions" build tag is specified at compile time. Without the build tag
// the assertions are stubbed and cost nothing.
//
// The Owner type asserts that a resource is only ever used by a single
// goroutine. The virtual device is the main user of this. The device is not
// safe for concurrent use and the emulation loop guarantees that only one
// goroutine ever calls into it. The assertion is a check of that guarantee.
package assert
