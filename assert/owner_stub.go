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

//go:build !assertions
// +build !assertions

package assert

// Owner records the goroutine that first claims a resource. Stubbed without
// the "assertions" build tag.
type Owner struct {
	Name string
}

// Check does nothing without the "assertions" build tag.
func (o *Owner) Check() {
}

// Release does nothing without the "assertions" build tag.
func (o *Owner) Release() {
}
