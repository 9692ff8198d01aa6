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

//go:build nocrc

package ziplayout

// CRCAccumulator is a no-op stand-in used when the nocrc build tag
// disables CRC-32 computation. Entries written in this configuration
// always carry CRC32 == 0.
type CRCAccumulator struct{}

// NewCRCAccumulator returns a no-op accumulator.
func NewCRCAccumulator() *CRCAccumulator {
	return &CRCAccumulator{}
}

// Update is a no-op.
func (c *CRCAccumulator) Update(p []byte) {}

// Sum32 always returns 0.
func (c *CRCAccumulator) Sum32() uint32 { return 0 }

// Reset is a no-op.
func (c *CRCAccumulator) Reset() {}
