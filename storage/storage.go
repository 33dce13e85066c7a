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
	"encoding/binary"
	"hash/crc32"
	"strings"

	"github.com/banglemu/banglemu/curated"
)

// Sentinal errors.
const (
	CapacityExceeded = "storage: capacity exceeded: %d bytes required, %d available"
	InvalidName      = "storage: invalid file name (%q)"
	DuplicateName    = "storage: duplicate file name (%q)"
	FileTooLarge     = "storage: file too large (%q is %d bytes)"
	Corrupt          = "storage: corrupt image: %v"
)

// Layout constants.
const (
	// maximum length of a file name
	NameLength = 28

	// size of the record header. length, name and check fields
	HeaderSize = 4 + NameLength + 4

	// records start on a four byte boundary
	Alignment = 4

	// the value of a byte in erased flash
	Erased = 0xff

	// the default capacity of the storage region. this is the entire 8MiB
	// flash of the device
	DefaultCapacity = 1 << 23
)

// the value of a length field in erased flash
const endOfList = 0xffffffff

// File is a single named file to be placed in the storage region.
type File struct {
	Name    string
	Content []byte
}

// Image is the serialised storage region. Only the used part of the region is
// included. The remainder of the region is expected to be erased flash.
type Image struct {
	Data []byte
}

// Len returns the number of bytes used by the image.
func (img Image) Len() int {
	return len(img.Data)
}

func validName(name string) bool {
	return len(name) > 0 && len(name) <= NameLength && !strings.ContainsRune(name, 0)
}

func paddedName(name string) [NameLength]byte {
	var n [NameLength]byte
	copy(n[:], name)
	return n
}

// RecordSize returns the number of bytes used by a record with content of the
// specified length, including the header and alignment padding.
func RecordSize(contentLength int) int {
	n := HeaderSize + contentLength
	if r := n % Alignment; r != 0 {
		n += Alignment - r
	}
	return n
}

func check(name [NameLength]byte, content []byte) uint32 {
	crc := crc32.NewIEEE()
	crc.Write(name[:])
	crc.Write(content)
	return crc.Sum32()
}

// Build the storage image from the list of files. The capacity is the size of
// the storage region in bytes.
//
// The returned error will be one of the sentinal errors in this package.
func Build(files []File, capacity int) (Image, error) {
	names := make(map[string]bool)

	// validate file list and calculate size of image before allocating
	var size int
	for _, f := range files {
		if !validName(f.Name) {
			return Image{}, curated.Errorf(InvalidName, f.Name)
		}
		if names[f.Name] {
			return Image{}, curated.Errorf(DuplicateName, f.Name)
		}
		names[f.Name] = true

		// the length field can't be the end of list marker
		if uint64(len(f.Content)) >= endOfList {
			return Image{}, curated.Errorf(FileTooLarge, f.Name, len(f.Content))
		}

		size += RecordSize(len(f.Content))
	}

	if size > capacity {
		return Image{}, curated.Errorf(CapacityExceeded, size, capacity)
	}

	img := Image{Data: make([]byte, 0, size)}
	for _, f := range files {
		name := paddedName(f.Name)
		img.Data = binary.LittleEndian.AppendUint32(img.Data, uint32(len(f.Content)))
		img.Data = append(img.Data, name[:]...)
		img.Data = binary.LittleEndian.AppendUint32(img.Data, check(name, f.Content))
		img.Data = append(img.Data, f.Content...)
		for len(img.Data)%Alignment != 0 {
			img.Data = append(img.Data, Erased)
		}
	}

	return img, nil
}
