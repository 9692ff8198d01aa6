// Copyright 2026 The zipstream Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ziplayout holds the byte-exact, allocation-only ZIP header
// builders shared by the synchronous and asynchronous writers. Every
// function here is a pure function of its arguments: it performs no I/O
// and holds no state, so it can be reused verbatim regardless of how the
// caller gets the resulting bytes to a sink.
package ziplayout

import (
	"encoding/binary"
	"math"
)

// Compression method codes (ZIP spec section 4.4.5).
const (
	MethodStored  uint16 = 0
	MethodDeflate uint16 = 8
)

// generalPurposeFlags is the general purpose bit flag value used for
// every entry written by this package: bit 3 (sizes/CRC follow in a data
// descriptor) and bit 11 (UTF-8 entry name) are set.
const generalPurposeFlags uint16 = 0x0808

// versionNeeded is "version needed to extract" = 2.0, sufficient for
// DEFLATE and data-descriptor support.
const versionNeeded uint16 = 20

const (
	localHeaderSignature            = 0x04034b50
	centralDirectoryHeaderSignature = 0x02014b50
	endOfCentralDirectorySignature  = 0x06054b50
)

// LocalHeaderSize returns the encoded size, in bytes, of a local file
// header for an entry whose name is nameLen bytes long.
func LocalHeaderSize(nameLen int) int { return 30 + nameLen }

// CentralHeaderSize returns the encoded size, in bytes, of a central
// directory file header for an entry whose name is nameLen bytes long.
func CentralHeaderSize(nameLen int) int { return 46 + nameLen }

// DataDescriptorSize is the fixed, signature-less size of a data
// descriptor record.
const DataDescriptorSize = 12

// EndOfCentralDirectorySize is the fixed size of the end-of-central-
// directory record (no archive comment is ever written).
const EndOfCentralDirectorySize = 22

// Entry is the bookkeeping record kept for one committed (or
// in-progress) archive entry. It is shared verbatim by the synchronous
// and asynchronous writers.
type Entry struct {
	Name              string
	Compression       uint16
	DateTime          [4]byte
	CRC32             uint32
	RawSize           uint32
	CompressedSize    uint32
	LocalHeaderOffset uint32
}

// LocalHeader builds the 30-byte-plus-name local file header for a new
// entry. All size/CRC fields are written as zero placeholders, per the
// ZIP format's data-descriptor convention (general purpose bit 3).
func LocalHeader(name string, compression uint16, dateTime [4]byte) []byte {
	buf := make([]byte, LocalHeaderSize(len(name)))
	binary.LittleEndian.PutUint32(buf[0:4], localHeaderSignature)
	binary.LittleEndian.PutUint16(buf[4:6], versionNeeded)
	binary.LittleEndian.PutUint16(buf[6:8], generalPurposeFlags)
	binary.LittleEndian.PutUint16(buf[8:10], compression)
	copy(buf[10:14], dateTime[:])
	// CRC-32 (14:18), compressed size (18:22), and uncompressed size
	// (22:26) are left zero; they are carried in the data descriptor.
	binary.LittleEndian.PutUint16(buf[26:28], uint16(len(name)))
	// Extra field length (28:30) is left zero; no extra fields are written.
	copy(buf[30:], name)
	return buf
}

// DataDescriptor builds the 12-byte, signature-less data descriptor
// written immediately after an entry's compressed payload.
func DataDescriptor(crc32, compressedSize, rawSize uint32) []byte {
	buf := make([]byte, DataDescriptorSize)
	binary.LittleEndian.PutUint32(buf[0:4], crc32)
	binary.LittleEndian.PutUint32(buf[4:8], compressedSize)
	binary.LittleEndian.PutUint32(buf[8:12], rawSize)
	return buf
}

// CentralDirectoryHeader builds the 46-byte-plus-name central directory
// file header for a committed entry.
func CentralDirectoryHeader(e Entry) []byte {
	buf := make([]byte, CentralHeaderSize(len(e.Name)))
	binary.LittleEndian.PutUint32(buf[0:4], centralDirectoryHeaderSignature)
	// Version made by (4:6) is left zero.
	binary.LittleEndian.PutUint16(buf[6:8], versionNeeded)
	binary.LittleEndian.PutUint16(buf[8:10], generalPurposeFlags)
	binary.LittleEndian.PutUint16(buf[10:12], e.Compression)
	copy(buf[12:16], e.DateTime[:])
	binary.LittleEndian.PutUint32(buf[16:20], e.CRC32)
	binary.LittleEndian.PutUint32(buf[20:24], e.CompressedSize)
	binary.LittleEndian.PutUint32(buf[24:28], e.RawSize)
	binary.LittleEndian.PutUint16(buf[28:30], uint16(len(e.Name)))
	// Extra field length (30:32), comment length (32:34), disk number
	// start (34:36), internal attributes (36:38), and external
	// attributes (38:42) are all left zero.
	binary.LittleEndian.PutUint32(buf[42:46], e.LocalHeaderOffset)
	copy(buf[46:], e.Name)
	return buf
}

// EndOfCentralDirectory builds the fixed-size end-of-central-directory
// record.
func EndOfCentralDirectory(entryCount uint16, directorySize, directoryOffset uint32) []byte {
	buf := make([]byte, EndOfCentralDirectorySize)
	binary.LittleEndian.PutUint32(buf[0:4], endOfCentralDirectorySignature)
	// Disk number (4:6) and disk-with-central-directory (6:8) are left zero.
	binary.LittleEndian.PutUint16(buf[8:10], entryCount)
	binary.LittleEndian.PutUint16(buf[10:12], entryCount)
	binary.LittleEndian.PutUint32(buf[12:16], directorySize)
	binary.LittleEndian.PutUint32(buf[16:20], directoryOffset)
	// Comment length (20:22) is left zero.
	return buf
}

// FitsUint32 reports whether v is representable in the 32-bit offset and
// size fields used throughout this format. Callers use this to reject
// archives that would otherwise overflow silently, since ZIP64 is not
// implemented here.
func FitsUint32(v uint64) bool {
	return v <= math.MaxUint32
}
