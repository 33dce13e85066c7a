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

// Package modalflag wraps the flag package of the standard library so that a
// program can have several modes of operation, each with its own flags.
//
// Arguments are given with NewArgs() and flags for the current mode are added
// with the Add*() functions. Parse() then processes the arguments:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "HEADLESS", "STORAGE", "VERSION")
//
//	p, err := md.Parse()
//	switch p {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		return err
//	}
//
// After parsing, the Mode() function returns the selected sub-mode. The first
// sub-mode added is the default and is selected if the first argument is not
// the name of a sub-mode. Sub-mode names are not case sensitive.
//
// To process the flags of the selected mode, call NewMode(), add the flags
// and call Parse() again:
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		tick := md.AddDuration("tick", 20*time.Millisecond, "interval between ticks")
//		p, err := md.Parse()
//		...
//		run(*tick, md.GetArg(0))
//	}
//
// Arguments that are neither flags nor a sub-mode are available with
// RemainingArgs() and GetArg().
package modalflag
