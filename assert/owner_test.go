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

package assert_test

import (
	"testing"

	"github.com/banglemu/banglemu/assert"
	"github.com/banglemu/banglemu/test"
)

func TestOwner(t *testing.T) {
	o := &assert.Owner{Name: "device"}
	o.Check()

	// checking again from the same goroutine is fine
	o.Check()

	panicked := make(chan bool)
	go func() {
		defer func() {
			panicked <- recover() != nil
		}()
		o.Check()
	}()
	test.ExpectSuccess(t, <-panicked)

	// after release another goroutine can claim the resource
	o.Release()
	go func() {
		defer func() {
			panicked <- recover() != nil
		}()
		o.Check()
	}()
	test.ExpectFailure(t, <-panicked)
}
