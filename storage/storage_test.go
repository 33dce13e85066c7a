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

package storage_test

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"strings"
	"testing"

	"github.com/banglemu/banglemu/curated"
	"github.com/banglemu/banglemu/storage"
	"github.com/banglemu/banglemu/test"
)

var files = []storage.File{
	{Name: ".bootcde", Content: []byte("E.showMessage('hello');")},
	{Name: "antonclk.info", Content: []byte(`{"id":"antonclk","name":"Anton Clock","type":"clock"}`)},
	{Name: "empty", Content: []byte{}},
	{Name: "antonclk.app.js", Content: []byte("Graphics.prototype.setFontAnton = function() {};")},
}

func TestDeterminism(t *testing.T) {
	a, err := storage.Build(files, storage.DefaultCapacity)
	test.DemandSuccess(t, err)

	b, err := storage.Build(files, storage.DefaultCapacity)
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, bytes.Equal(a.Data, b.Data))
}

func TestRoundTrip(t *testing.T) {
	img, err := storage.Build(files, storage.DefaultCapacity)
	test.DemandSuccess(t, err)

	// the image is placed in erased flash
	region := bytes.Repeat([]byte{storage.Erased}, 4096)
	copy(region, img.Data)

	decoded, err := storage.Decode(region)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(decoded), len(files))

	for i := range files {
		test.ExpectEquality(t, decoded[i].Name, files[i].Name)
		test.ExpectSuccess(t, bytes.Equal(decoded[i].Content, files[i].Content), files[i].Name)
	}
}

// check the layout of a single record field by field
func TestLayout(t *testing.T) {
	img, err := storage.Build([]storage.File{{Name: "a.js", Content: []byte("12345")}}, storage.DefaultCapacity)
	test.DemandSuccess(t, err)

	// 36 bytes of header, 5 bytes of content and 3 bytes of padding
	test.DemandEquality(t, img.Len(), 44)

	test.ExpectEquality(t, binary.LittleEndian.Uint32(img.Data[0:]), 5)

	name := make([]byte, storage.NameLength)
	copy(name, "a.js")
	test.ExpectSuccess(t, bytes.Equal(img.Data[4:4+storage.NameLength], name))

	crc := crc32.NewIEEE()
	crc.Write(name)
	crc.Write([]byte("12345"))
	test.ExpectEquality(t, binary.LittleEndian.Uint32(img.Data[32:]), crc.Sum32())

	test.ExpectEquality(t, string(img.Data[36:41]), "12345")
	test.ExpectSuccess(t, bytes.Equal(img.Data[41:], []byte{0xff, 0xff, 0xff}))
}

func TestRecordSize(t *testing.T) {
	test.ExpectEquality(t, storage.RecordSize(0), 36)
	test.ExpectEquality(t, storage.RecordSize(1), 40)
	test.ExpectEquality(t, storage.RecordSize(4), 40)
	test.ExpectEquality(t, storage.RecordSize(5), 44)
}

func TestCapacity(t *testing.T) {
	f := []storage.File{{Name: "big", Content: make([]byte, 100)}}

	// exactly the size of the record is okay
	_, err := storage.Build(f, storage.RecordSize(100))
	test.ExpectSuccess(t, err)

	_, err = storage.Build(f, storage.RecordSize(100)-1)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, storage.CapacityExceeded))

	// an empty file list always fits
	img, err := storage.Build(nil, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, img.Len(), 0)
}

func TestNames(t *testing.T) {
	_, err := storage.Build([]storage.File{{Name: ""}}, storage.DefaultCapacity)
	test.ExpectSuccess(t, curated.Is(err, storage.InvalidName))

	_, err = storage.Build([]storage.File{{Name: strings.Repeat("x", storage.NameLength+1)}}, storage.DefaultCapacity)
	test.ExpectSuccess(t, curated.Is(err, storage.InvalidName))

	_, err = storage.Build([]storage.File{{Name: "a\x00b"}}, storage.DefaultCapacity)
	test.ExpectSuccess(t, curated.Is(err, storage.InvalidName))

	_, err = storage.Build([]storage.File{{Name: strings.Repeat("x", storage.NameLength)}}, storage.DefaultCapacity)
	test.ExpectSuccess(t, err)

	_, err = storage.Build([]storage.File{{Name: "a"}, {Name: "b"}, {Name: "a"}}, storage.DefaultCapacity)
	test.ExpectSuccess(t, curated.Is(err, storage.DuplicateName))
}

func TestCorruption(t *testing.T) {
	img, err := storage.Build(files, storage.DefaultCapacity)
	test.DemandSuccess(t, err)

	// flip a bit in the content of the first file
	data := make([]byte, img.Len())
	copy(data, img.Data)
	data[storage.HeaderSize] ^= 0x01
	_, err = storage.Decode(data)
	test.ExpectSuccess(t, curated.Is(err, storage.Corrupt))

	// truncate the image in the middle of the last record
	_, err = storage.Decode(img.Data[:img.Len()-8])
	test.ExpectSuccess(t, curated.Is(err, storage.Corrupt))

	// completely erased flash is an empty list
	decoded, err := storage.Decode(bytes.Repeat([]byte{storage.Erased}, 64))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(decoded), 0)
}
