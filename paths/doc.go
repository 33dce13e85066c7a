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

// Package paths locates the files used by Banglemu, such as the default
// configuration file.
//
// ResourcePath() prepends the base resource directory to the resource
// elements. If a directory named ".banglemu" exists in the current directory
// then that is the base. Otherwise the base is a "banglemu" directory in the
// user's configuration directory, as returned by os.UserConfigDir(). For
// example, on Linux:
//
//	paths.ResourcePath("banglemu.toml")
//
// returns:
//
//	/home/user/.config/banglemu/banglemu.toml
package paths
