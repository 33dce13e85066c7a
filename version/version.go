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

// Package version reports the name and version of the application.
package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is the name to use when referring to the application.
const ApplicationName = "Banglemu"

// number is set by the linker for release builds.
var number string

var (
	version  string
	revision string
)

// Version returns the version string, the revision string and whether this is a
// numbered release.
//
// The version is "unreleased" if there is no version number but there is VCS
// information, and "local" if there is neither.
func Version() (string, string, bool) {
	return version, revision, number != "" && version == number
}

func init() {
	version, revision = describe(number, readBuildInfo())
}

type buildInfo struct {
	vcs      bool
	revision string
	modified bool
}

func readBuildInfo() buildInfo {
	var bi buildInfo

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bi
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs":
			bi.vcs = true
		case "vcs.revision":
			bi.revision = s.Value
		case "vcs.modified":
			bi.modified = s.Value == "true"
		}
	}

	return bi
}

func describe(number string, bi buildInfo) (string, string) {
	rev := "no revision information"
	if bi.revision != "" {
		rev = bi.revision
		if bi.modified {
			rev = fmt.Sprintf("%s+dirty", rev)
		}
	}

	switch {
	case number != "":
		return number, rev
	case bi.vcs:
		return "unreleased", rev
	}
	return "local", rev
}
