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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The Is() function can be used to check whether an error was created with a
// specific pattern. Patterns that are checked for in this way should be
// exported from the package that creates them, as a const string:
//
//	const CapacityExceeded = "storage: capacity exceeded: %d bytes required, %d available"
//
//	err := curated.Errorf(CapacityExceeded, 9000000, 8388608)
//
//	if curated.Is(err, storage.CapacityExceeded) {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	f := curated.Errorf("banglemu: %v", err)
//
//	if curated.Has(f, storage.CapacityExceeded) {
//		fmt.Println("true")
//	}
//
// The IsAny() function answers whether the error was created by
// curated.Errorf(). We can think of the difference as being 'expected' and
// 'unexpected' depending on how we choose to handle the result of the function
// call.
//
// The Error() function implementation for curated errors ensures that the
// error chain is normalised. Specifically, that the chain does not contain
// duplicate adjacent parts. For example, an error from the wasm package
// wrapped with the same prefix by the device package:
//
//	wasm: wasm: missing export: jsIdle
//
// will be printed as:
//
//	wasm: missing export: jsIdle
//
// For the purposes of this package we think of chains as being composed of
// parts separted by the sub-string ': ' as suggested on p239 of "The Go
// Programming Language" (Donovan, Kernighan).
//
// Values of type error that are used to build a curated error are available
// to errors.Is() and errors.As() through the Unwrap() function.
package curated
