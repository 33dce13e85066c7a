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

// Package config reads the Banglemu configuration file. The file is TOML and
// every key is optional:
//
//	module = "espruino_banglejs2.wasm"
//	console = "localhost:37026"
//	tick = "20ms"
//	metrics = "localhost:9100"
//
//	[gesture]
//	move_threshold = 2
//	tap_distance = 5
//	swipe_time = "500ms"
//
//	[storage]
//	offset = 0
//	capacity = 8388608
//
//	[[storage.file]]
//	name = ".bootcde"
//	content = "load('antonclk.app.js');"
//
//	[[storage.file]]
//	name = "antonclk.app.js"
//	path = "apps/antonclk/app.js"
//
// Storage files are preloaded in the order they appear. Each file has either
// a path, which is relative to the directory of the configuration file, or
// inline content, but not both.
//
// Unknown keys are an error. This catches misspelled keys that would
// otherwise be silently ignored.
package config
