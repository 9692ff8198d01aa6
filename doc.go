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

// Package zipstream implements a streaming writer for the ZIP archive
// container format. Entries are written with their payload size unknown
// up front: the writer emits a local file header immediately, streams the
// payload through an optional DEFLATE transform, and follows the payload
// with a data descriptor once the compressed size, raw size, and CRC-32
// are known. The central directory and end-of-central-directory record
// are emitted when the archive is finished.
//
// See the sibling zipstream/stream package for a variant of this writer
// driven by a cooperative, poll-readiness sink instead of a blocking
// io.Writer.
//
// ZIP64, encryption, multi-disk archives, and reading ZIP archives are
// not supported. Unless otherwise informed, clients should not assume
// implementations in this package are safe for parallel use on the same
// Writer.
package zipstream
