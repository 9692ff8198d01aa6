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
	"fmt"
	"io"

	"github.com/go-zipstream/zipstream/internal/ziplayout"
)

// Re-exported so callers don't need to import the internal layout
// package just to name a compression method.
const (
	MethodStored  = ziplayout.MethodStored
	MethodDeflate = ziplayout.MethodDeflate
)

// activeEntry tracks the entry currently being streamed: the one
// compression pipeline installed over the sink, and the running raw
// (uncompressed) byte count the caller has written into it.
//
// Per the offset-bookkeeping open question in the spec this writer
// tracks input bytes and sink bytes as two separate counters (rawSize
// here, cursor on the Writer) rather than reconciling a single counter
// at commit time.
type activeEntry struct {
	index      int
	compressor compressor
	rawSize    uint64
}

// Writer streams entries into a ZIP archive on an underlying sink. The
// sink only needs to accept bytes sequentially; it is never read from,
// seeked, or closed by Writer.
//
// A Writer must not be used concurrently.
type Writer struct {
	sink    io.Writer
	level   int
	entries []ziplayout.Entry
	cursor  uint64
	pending *activeEntry
	crc     *ziplayout.CRCAccumulator
	closed  bool
}

// NewWriter creates a Writer around sink using the default DEFLATE
// compression level for any deflate entries.
func NewWriter(sink io.Writer) *Writer {
	return NewWriterLevel(sink, flate.DefaultCompression)
}

// NewWriterLevel creates a Writer around sink, using level for any
// entry created with MethodDeflate. level follows compress/flate's
// level constants.
func NewWriterLevel(sink io.Writer, level int) *Writer {
	return &Writer{
		sink:  sink,
		level: level,
		crc:   ziplayout.NewCRCAccumulator(),
	}
}

// Entries returns a snapshot of the entries committed so far, in
// creation order. The entry currently being streamed (if any) is not
// included, since its CRC and sizes are not yet known.
func (w *Writer) Entries() []ziplayout.Entry {
	out := make([]ziplayout.Entry, len(w.entries))
	copy(out, w.entries)
	if w.pending != nil {
		out = out[:w.pending.index]
	}
	return out
}

// CreateEntry commits any currently active entry, then begins a new one
// named name, using the given compression method and modification
// timestamp. name must be at most 65535 bytes; violating this returns
// ErrInvalidInput and writes nothing.
func (w *Writer) CreateEntry(name string, compression uint16, dateTime DOSDateTime) error {
	if w.closed {
		return ErrWriterClosed
	}
	if len(name) > 65535 {
		return fmt.Errorf("%w: entry name %d bytes exceeds 65535", ErrInvalidInput, len(name))
	}

	if err := w.commitPending(); err != nil {
		return err
	}

	if !ziplayout.FitsUint32(w.cursor) {
		return ErrArchiveTooLarge
	}
	headerOffset := uint32(w.cursor)

	header := ziplayout.LocalHeader(name, compression, dateTime.Bytes())
	if err := w.writeSink(header); err != nil {
		return err
	}

	comp, err := w.newCompressor(compression)
	if err != nil {
		return fmt.Errorf("%w: %w", errZipstream, err)
	}

	w.entries = append(w.entries, ziplayout.Entry{
		Name:              name,
		Compression:       compression,
		DateTime:          dateTime.Bytes(),
		LocalHeaderOffset: headerOffset,
	})
	w.pending = &activeEntry{index: len(w.entries) - 1, compressor: comp}
	w.crc.Reset()

	return nil
}

func (w *Writer) newCompressor(compression uint16) (compressor, error) {
	switch compression {
	case ziplayout.MethodDeflate:
		return newDeflateCompressor(w.sink, w.level)
	default:
		return newStoredCompressor(w.sink), nil
	}
}

// Write feeds bytes into the active entry's compression pipeline,
// updates its CRC-32 over the raw input, and advances the sink cursor
// by however many bytes the pipeline actually emitted. It is a
// programming error to call Write with no active entry.
func (w *Writer) Write(p []byte) (int, error) {
	if w.pending == nil {
		return 0, ErrNoActiveEntry
	}

	emittedBefore := emittedBy(w.pending.compressor)
	n, err := w.pending.compressor.Write(p)
	w.cursor += uint64(emittedBy(w.pending.compressor) - emittedBefore)
	w.pending.rawSize += uint64(n)
	w.crc.Update(p[:n])

	if err != nil {
		return n, fmt.Errorf("%w: %w", errZipstream, err)
	}
	return n, nil
}

// Flush flushes the active compression pipeline, if any, and the sink
// if it exposes a Flush method.
func (w *Writer) Flush() error {
	if w.pending != nil {
		emittedBefore := emittedBy(w.pending.compressor)
		err := w.pending.compressor.Flush()
		w.cursor += uint64(emittedBy(w.pending.compressor) - emittedBefore)
		if err != nil {
			return fmt.Errorf("%w: %w", errZipstream, err)
		}
	}
	if f, ok := w.sink.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("%w: %w", errZipstream, err)
		}
	}
	return nil
}

// Finish commits any active entry, then writes the central directory
// and end-of-central-directory record. After Finish returns
// successfully the Writer is terminal: no further operations are valid.
// The sink itself is not closed; closing it remains the caller's
// responsibility.
func (w *Writer) Finish() error {
	if w.closed {
		return ErrWriterClosed
	}

	if err := w.commitPending(); err != nil {
		return err
	}

	if !ziplayout.FitsUint32(w.cursor) {
		return ErrArchiveTooLarge
	}
	directoryStart := uint32(w.cursor)

	for _, entry := range w.entries {
		if err := w.writeSink(ziplayout.CentralDirectoryHeader(entry)); err != nil {
			return err
		}
	}

	if !ziplayout.FitsUint32(w.cursor - uint64(directoryStart)) {
		return ErrArchiveTooLarge
	}
	directorySize := uint32(w.cursor - uint64(directoryStart))

	if len(w.entries) > 65535 {
		return ErrArchiveTooLarge
	}
	end := ziplayout.EndOfCentralDirectory(uint16(len(w.entries)), directorySize, directoryStart)
	if err := w.writeSink(end); err != nil {
		return err
	}

	w.closed = true
	return nil
}

// commitPending finalizes the currently active entry, if any: it
// captures the CRC-32 and raw size, detaches the compression pipeline,
// and writes the trailing data descriptor.
func (w *Writer) commitPending() error {
	if w.pending == nil {
		return nil
	}
	entry := &w.entries[w.pending.index]

	entry.CRC32 = w.crc.Sum32()
	w.crc.Reset()

	if !ziplayout.FitsUint32(w.pending.rawSize) {
		return ErrArchiveTooLarge
	}
	entry.RawSize = uint32(w.pending.rawSize)

	emittedBefore := emittedBy(w.pending.compressor)
	compressedSize, err := w.pending.compressor.finish()
	w.cursor += uint64(emittedBy(w.pending.compressor) - emittedBefore)
	if err != nil {
		return fmt.Errorf("%w: %w", errZipstream, err)
	}
	entry.CompressedSize = compressedSize

	if err := w.writeSink(ziplayout.DataDescriptor(entry.CRC32, entry.CompressedSize, entry.RawSize)); err != nil {
		return err
	}

	w.pending = nil
	return nil
}

// writeSink writes p to the sink in full, advancing the cursor by
// however many bytes were actually accepted even on a short write or
// error, matching the invariant that cursor always equals exactly the
// number of bytes the sink has accepted.
func (w *Writer) writeSink(p []byte) error {
	n, err := w.sink.Write(p)
	w.cursor += uint64(n)
	if err != nil {
		return fmt.Errorf("%w: %w", errZipstream, err)
	}
	if n != len(p) {
		return fmt.Errorf("%w: short write to sink", errZipstream)
	}
	return nil
}

// emittedCounter is implemented by both compressor variants so the
// Writer can compute exactly how many bytes a single Write or Flush
// call pushed to the sink, without the compressor needing to know about
// the archive cursor.
type emittedCounter interface {
	emitted() uint32
}

func (s *storedCompressor) emitted() uint32  { return s.cw.n }
func (d *deflateCompressor) emitted() uint32 { return d.cw.n }

func emittedBy(c compressor) uint32 {
	if ec, ok := c.(emittedCounter); ok {
		return ec.emitted()
	}
	return 0
}
