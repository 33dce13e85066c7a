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

package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/banglemu/banglemu/curated"
)

// Decode the data in a storage region into a list of files. Decoding stops at
// the end of the list marker or at the end of the data.
//
// An error is returned if a record does not fit in the data, if a name is
// not valid or if a check field does not match the record.
func Decode(data []byte) ([]File, error) {
	var files []File

	idx := 0
	for idx+4 <= len(data) {
		length := binary.LittleEndian.Uint32(data[idx:])
		if length == endOfList {
			break // for loop
		}

		if idx+HeaderSize > len(data) {
			return nil, curated.Errorf(Corrupt, fmt.Errorf("truncated header at offset %#x", idx))
		}

		if uint64(idx)+uint64(RecordSize(0))+uint64(length) > uint64(len(data)) {
			return nil, curated.Errorf(Corrupt, fmt.Errorf("record at offset %#x extends beyond region", idx))
		}

		var name [NameLength]byte
		copy(name[:], data[idx+4:idx+4+NameLength])

		n := string(bytes.TrimRight(name[:], "\x00"))
		if !validName(n) {
			return nil, curated.Errorf(Corrupt, fmt.Errorf("invalid name at offset %#x", idx))
		}

		chk := binary.LittleEndian.Uint32(data[idx+4+NameLength:])

		start := idx + HeaderSize
		content := make([]byte, length)
		copy(content, data[start:start+int(length)])

		if check(name, content) != chk {
			return nil, curated.Errorf(Corrupt, fmt.Errorf("check failed for %q", n))
		}

		files = append(files, File{Name: n, Content: content})

		idx += RecordSize(int(length))
	}

	return files, nil
}
