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

package test_test

import (
	"fmt"
	"testing"

	"github.com/banglemu/banglemu/test"
)

func TestWriter(t *testing.T) {
	tw := &test.Writer{}
	test.ExpectSuccess(t, tw.Compare(""))

	fmt.Fprintf(tw, "console: %s", "hello")
	test.ExpectSuccess(t, tw.Compare("console: hello"))
	test.ExpectEquality(t, string(tw.Bytes()), "console: hello")

	tw.Clear()
	test.ExpectEquality(t, tw.String(), "")
}

func TestExpectations(t *testing.T) {
	var err error
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, nil)
	test.ExpectSuccess(t, true)
	test.ExpectFailure(t, false)
	test.ExpectFailure(t, fmt.Errorf("error"))
	test.ExpectEquality(t, 10, 10)
	test.ExpectInequality(t, "a", "b")
}
