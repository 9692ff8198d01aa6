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

import (
	"bytes"
	"compress/flate"
)

// asyncCompressor is the per-entry compression pipeline used by the
// poll-based Writer. Unlike the synchronous package's compressor, it
// never touches the sink directly: every method is pure CPU and never
// blocks, returning whatever bytes became available to send so the
// Writer can queue them on its own outbox and drain that against the
// PollSink at its own pace.
type asyncCompressor interface {
	// write buffers p. It always accepts all of p (n == len(p) unless
	// err is non-nil); emitted is whatever compressed output became
	// available as a result, ready to enqueue.
	write(p []byte) (n int, emitted []byte, err error)

	// flush forces any buffered output out without ending the stream.
	flush() (emitted []byte, err error)

	// finish ends the stream, returning any final bytes together with
	// the total number of bytes the pipeline has produced.
	finish() (compressedSize uint32, emitted []byte, err error)
}

// storedAsyncCompressor is the identity pipeline: input passes through
// unchanged, so compressed_size always equals raw_size.
type storedAsyncCompressor struct {
	total uint32
}

func newStoredAsyncCompressor() *storedAsyncCompressor { return &storedAsyncCompressor{} }

func (s *storedAsyncCompressor) write(p []byte) (int, []byte, error) {
	s.total += uint32(len(p))
	return len(p), p, nil
}

func (s *storedAsyncCompressor) flush() ([]byte, error) { return nil, nil }

func (s *storedAsyncCompressor) finish() (uint32, []byte, error) { return s.total, nil, nil }

// deflateAsyncCompressor streams input through a raw DEFLATE encoder
// into an in-memory buffer, which is drained after every operation.
// compress/flate never blocks or returns a short write on an
// in-memory bytes.Buffer, so every method here is synchronous and pure.
type deflateAsyncCompressor struct {
	buf   bytes.Buffer
	fw    *flate.Writer
	total uint32
}

func newDeflateAsyncCompressor(level int) (*deflateAsyncCompressor, error) {
	d := &deflateAsyncCompressor{}
	fw, err := flate.NewWriter(&d.buf, level)
	if err != nil {
		return nil, err
	}
	d.fw = fw
	return d, nil
}

func (d *deflateAsyncCompressor) drain() []byte {
	if d.buf.Len() == 0 {
		return nil
	}
	out := make([]byte, d.buf.Len())
	copy(out, d.buf.Bytes())
	d.buf.Reset()
	d.total += uint32(len(out))
	return out
}

func (d *deflateAsyncCompressor) write(p []byte) (int, []byte, error) {
	n, err := d.fw.Write(p)
	return n, d.drain(), err
}

func (d *deflateAsyncCompressor) flush() ([]byte, error) {
	err := d.fw.Flush()
	return d.drain(), err
}

func (d *deflateAsyncCompressor) finish() (uint32, []byte, error) {
	err := d.fw.Close()
	emitted := d.drain()
	return d.total, emitted, err
}
