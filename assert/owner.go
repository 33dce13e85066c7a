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

//go:build assertions
// +build assertions

package assert

import (
	"fmt"
	"sync/atomic"
)

// Owner records the goroutine that first claims a resource.
type Owner struct {
	Name string
	id   atomic.Uint64
}

// Check panics if the calling goroutine is not the owner of the resource. The
// first goroutine to call Check() becomes the owner.
func (o *Owner) Check() {
	id := GetGoRoutineID()
	if o.id.CompareAndSwap(0, id) {
		return
	}
	if owner := o.id.Load(); owner != id {
		panic(fmt.Sprintf("%s: used by goroutine %d but owned by goroutine %d", o.Name, id, owner))
	}
}

// Release forgets the current owner. The next call to Check() will claim the
// resource for the calling goroutine.
func (o *Owner) Release() {
	o.id.Store(0)
}
