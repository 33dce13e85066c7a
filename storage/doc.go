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

// Package storage builds the image of the device's persistent storage region
// from a list of files. The image is written into the device's flash before
// the device is booted.
//
// The layout of the storage region is a sequence of file records packed from
// the start of the region. Each record is aligned to a four byte boundary:
//
//	offset  size  field
//	0       4     length of content in bytes (little-endian)
//	4       28    file name, NUL padded
//	32      4     check: CRC-32 (IEEE) of the 28 name bytes and the content
//	36      n     content
//	36+n    pad   0xff to the next four byte boundary
//
// Unused flash reads as 0xff (erased) and so a length field of 0xffffffff
// marks the end of the list.
//
// Building the same list of files always produces the same image. The order
// of files in the image is the order of the list.
//
// The Decode() function reads an image back into a list of files. It is a
// check of the builder and is used to list the contents of an image.
package storage
