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

//go:build !nocrc

package ziplayout

import "hash/crc32"

// CRCAccumulator incrementally hashes an entry's raw payload using the
// standard IEEE 802.3 CRC-32 polynomial. It is reset between entries.
type CRCAccumulator struct {
	digest uint32
}

// NewCRCAccumulator returns a zeroed accumulator.
func NewCRCAccumulator() *CRCAccumulator {
	return &CRCAccumulator{}
}

// Update feeds bytes into the running checksum.
func (c *CRCAccumulator) Update(p []byte) {
	c.digest = crc32.Update(c.digest, crc32.IEEETable, p)
}

// Sum32 returns the checksum so far without consuming it; Update may be
// called again, or Reset to start a new entry.
func (c *CRCAccumulator) Sum32() uint32 {
	return c.digest
}

// Reset zeros the accumulator for the next entry.
func (c *CRCAccumulator) Reset() {
	c.digest = 0
}
