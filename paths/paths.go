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

package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// name of the base resource directory when found in the current directory.
// the same name without the leading dot is used in the user's config
// directory.
const localBase = ".banglemu"

// ResourcePath joins the resource elements to the base resource directory.
// Neither the base nor the resource need to exist.
func ResourcePath(resource ...string) string {
	p := make([]string, 0, len(resource)+1)
	p = append(p, base())
	p = append(p, resource...)
	return filepath.Join(p...)
}

func base() string {
	if fi, err := os.Stat(localBase); err == nil && fi.IsDir() {
		return localBase
	}

	cnf, err := os.UserConfigDir()
	if err != nil {
		return localBase
	}
	return filepath.Join(cnf, localBase[1:])
}

// UniqueFilename returns a filename that contains the current date and time.
// The name is not checked for existence.
//
// The format of the returned string is:
//
//	prefix_name_YYYYMMDD_HHMMSS.ext
//
// If name is empty it is omitted along with its separator.
func UniqueFilename(prefix string, name string, ext string) string {
	n := time.Now()
	ts := fmt.Sprintf("%04d%02d%02d_%02d%02d%02d", n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second())

	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	var fn string
	if name == "" {
		fn = fmt.Sprintf("%s_%s", prefix, ts)
	} else {
		fn = fmt.Sprintf("%s_%s_%s", prefix, name, ts)
	}

	if ext != "" {
		fn = fmt.Sprintf("%s.%s", fn, strings.TrimPrefix(ext, "."))
	}

	return fn
}
