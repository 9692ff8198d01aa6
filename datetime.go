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

package zipstream

import (
	"encoding/binary"
	"time"
)

// DOSDateTime is the packed 4-byte MS-DOS date/time representation used
// by ZIP local and central directory headers: a 2-byte time field
// followed by a 2-byte date field, both little-endian.
type DOSDateTime [4]byte

// DefaultDOSDateTime returns the all-zero DOS timestamp. Readers
// interpret it as 1980-01-00 00:00:00, or similar; it is the value ZIP
// archives carry when no modification time is supplied.
func DefaultDOSDateTime() DOSDateTime {
	return DOSDateTime{}
}

// NewDOSDateTime packs t into the MS-DOS date/time format.
//
// DOS time only stores even seconds; odd seconds are rounded down. The
// representable year range is 1980-2107. None of t's components,
// including the year, are calendar-validated: a time outside the
// representable range is a caller contract violation, and the result
// is simply the packing formula applied to the out-of-range component,
// matching the ZIP format's own lack of validation.
func NewDOSDateTime(t time.Time) DOSDateTime {
	timeWord := uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
	dateWord := uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())

	var d DOSDateTime
	binary.LittleEndian.PutUint16(d[0:2], timeWord)
	binary.LittleEndian.PutUint16(d[2:4], dateWord)
	return d
}

// Bytes returns the 4-byte little-endian encoding consumed directly by
// the local and central directory header writers.
func (d DOSDateTime) Bytes() [4]byte {
	return d
}
