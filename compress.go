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
	"compress/flate"
	"io"
)

// countingWriter wraps an io.Writer and tallies the bytes actually
// accepted by it, so the writer can recover a pipeline's total output
// size without depending on the compressor's own internal counters.
type countingWriter struct {
	w io.Writer
	n uint32
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint32(n)
	return n, err
}

// compressor is the per-entry compression pipeline. Exactly one is
// active at a time, installed over the archive's sink at CreateEntry and
// detached at commit.
type compressor interface {
	io.Writer

	// Flush pushes any buffered output to the sink without ending the
	// stream.
	Flush() error

	// finish emits any final framing, detaches from the sink, and
	// returns the total number of bytes the pipeline emitted to it.
	finish() (uint32, error)
}

// storedCompressor is the identity pipeline: payload bytes pass through
// to the sink unmodified, so compressed_size always equals raw_size.
type storedCompressor struct {
	cw *countingWriter
}

func newStoredCompressor(sink io.Writer) *storedCompressor {
	return &storedCompressor{cw: &countingWriter{w: sink}}
}

func (s *storedCompressor) Write(p []byte) (int, error) { return s.cw.Write(p) }

func (s *storedCompressor) Flush() error { return nil }

func (s *storedCompressor) finish() (uint32, error) { return s.cw.n, nil }

// deflateCompressor streams payload bytes through a raw (headerless,
// trailerless) RFC 1951 DEFLATE encoder before they reach the sink.
type deflateCompressor struct {
	cw *countingWriter
	fw *flate.Writer
}

func newDeflateCompressor(sink io.Writer, level int) (*deflateCompressor, error) {
	cw := &countingWriter{w: sink}
	fw, err := flate.NewWriter(cw, level)
	if err != nil {
		return nil, err
	}
	return &deflateCompressor{cw: cw, fw: fw}, nil
}

func (d *deflateCompressor) Write(p []byte) (int, error) { return d.fw.Write(p) }

func (d *deflateCompressor) Flush() error { return d.fw.Flush() }

func (d *deflateCompressor) finish() (uint32, error) {
	// Close emits the final DEFLATE block (including the empty block
	// needed for a zero-byte entry) and flushes everything buffered.
	if err := d.fw.Close(); err != nil {
		return d.cw.n, err
	}
	return d.cw.n, nil
}
