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

import "errors"

// errZipstream is the base error for all zipstream errors.
var errZipstream = errors.New("zipstream")

// ErrInvalidInput indicates that a caller-supplied value violates the
// writer's contract, such as an entry name longer than 65535 bytes.
var ErrInvalidInput = errors.New("zipstream: invalid input")

// ErrArchiveTooLarge indicates that an offset or size would overflow the
// 32-bit fields used by this writer, or that the entry count would
// overflow the 16-bit count fields of the end-of-central-directory
// record. ZIP64 is not supported, so archives and entries are rejected
// rather than silently truncated.
var ErrArchiveTooLarge = errors.New("zipstream: archive exceeds 32-bit offset limit")

// ErrNoActiveEntry indicates that Write was called without a preceding,
// still-open CreateEntry call. This is a caller programming error.
var ErrNoActiveEntry = errors.New("zipstream: write with no active entry")

// ErrWriterClosed indicates that an operation was attempted on a Writer
// after Finish has already returned successfully.
var ErrWriterClosed = errors.New("zipstream: writer already finished")
