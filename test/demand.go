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

package test

import "testing"

// DemandEquality is like ExpectEquality() except that the test is stopped if
// the values are not equal. Use it when later parts of the test depend on the
// values, for example checking the length of a slice before indexing it.
func DemandEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) {
	t.Helper()
	if v != expectedValue {
		t.Fatalf("%s%T values are not equal: '%v' demanded but got '%v'", id(tags...), v, expectedValue, v)
	}
}

// DemandSuccess is like ExpectSuccess() except that the test is stopped if
// the value is not a success value.
func DemandSuccess(t *testing.T, v any, tags ...any) {
	t.Helper()
	if expect(t, v, tags...) {
		return
	}
	if err, ok := v.(error); ok {
		t.Fatalf("%ssuccess demanded: %v", id(tags...), err)
	}
	t.Fatalf("%ssuccess demanded for %T value", id(tags...), v)
}

// DemandFailure is like ExpectFailure() except that the test is stopped if
// the value is a success value.
func DemandFailure(t *testing.T, v any, tags ...any) {
	t.Helper()
	if !expect(t, v, tags...) {
		return
	}
	t.Fatalf("%sfailure demanded for %T value", id(tags...), v)
}
