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

package stream

import "errors"

var errStream = errors.New("zipstream/stream")

// ErrWouldBlock is returned by a Poll* method when the underlying
// PollSink cannot currently accept more bytes. The writer has already
// performed whatever synchronous bookkeeping the call implied (CRC
// update, entry metadata, compression); only the actual transfer to the
// sink is outstanding. Callers must call the same Poll* method again
// later — with the same arguments, in the case of PollWrite — until it
// returns a nil error, before starting any other operation on the
// Writer.
var ErrWouldBlock = errors.New("zipstream/stream: sink not ready")

// ErrOperationInProgress is returned when a Poll* method other than the
// one currently in flight is called before the in-flight one has
// completed (returned a nil error). This mirrors polling the wrong
// future in an async runtime; exactly one operation may be outstanding
// on a Writer at a time.
var ErrOperationInProgress = errors.New("zipstream/stream: another poll operation has not completed")
