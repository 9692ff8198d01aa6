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

// Package stream provides a poll-based ZIP writer for sinks that cannot
// accept a blocking io.Writer — network sockets under a non-blocking
// event loop, rate-limited uploaders, anything that sometimes needs to
// say "not yet" rather than block the caller.
//
// Go has no language-level analogue to Rust's Future::poll, so this
// package follows the common readiness-retry idiom for non-blocking
// streams (smux's Stream, for example, signals backpressure with a
// sentinel error rather than blocking): PollSink.PollWrite returns
// ErrWouldBlock instead of
// blocking, and every Writer method that may need to push bytes follows
// the same contract.
package stream

import (
	"compress/flate"
	"fmt"

	"github.com/go-zipstream/zipstream"
	"github.com/go-zipstream/zipstream/internal/ziplayout"
)

// PollSink is a non-blocking byte sink. A call that cannot currently
// accept data returns (0, ErrWouldBlock); the caller is expected to
// retry later, typically once notified by whatever readiness mechanism
// the sink is integrated with (an epoll/kqueue loop, a channel, etc).
// PollWrite must never partially fail: once it returns n > 0 those n
// bytes are considered durably accepted.
type PollSink interface {
	PollWrite(p []byte) (n int, err error)
}

type opKind int

const (
	opNone opKind = iota
	opCreateEntry
	opWrite
	opFlush
	opFinish
)

// activeEntry mirrors the synchronous writer's bookkeeping for the
// entry currently being streamed.
type activeEntry struct {
	index      int
	compressor asyncCompressor
	rawSize    uint64
}

// Writer is the poll-based counterpart to zipstream.Writer. It exposes
// the same archive semantics, but every operation that touches the sink
// is named Poll* and may return ErrWouldBlock instead of completing.
//
// Exactly one Poll* call may be outstanding at a time: if one returns
// ErrWouldBlock, the caller must call that same method again (with the
// same arguments, for PollWrite) until it returns a different result,
// before calling any other method. A Writer must not be used
// concurrently.
type Writer struct {
	sink    PollSink
	level   int
	entries []ziplayout.Entry
	cursor  uint64
	pending *activeEntry
	crc     *ziplayout.CRCAccumulator
	closed  bool

	inflight opKind
	outbox   []byte
	writeN   int
}

// NewWriter creates a Writer around sink using the default DEFLATE
// compression level for any deflate entries.
func NewWriter(sink PollSink) *Writer {
	return NewWriterLevel(sink, flate.DefaultCompression)
}

// NewWriterLevel creates a Writer around sink, using level for any
// entry created with zipstream.MethodDeflate.
func NewWriterLevel(sink PollSink, level int) *Writer {
	return &Writer{
		sink:  sink,
		level: level,
		crc:   ziplayout.NewCRCAccumulator(),
	}
}

// Entries returns a snapshot of the entries committed so far, in
// creation order.
func (w *Writer) Entries() []ziplayout.Entry {
	out := make([]ziplayout.Entry, len(w.entries))
	copy(out, w.entries)
	if w.pending != nil {
		out = out[:w.pending.index]
	}
	return out
}

// drainOutbox pushes as much of w.outbox to the sink as it will accept.
// It returns nil once the outbox is empty, ErrWouldBlock if the sink
// still has bytes outstanding, or a wrapped sink error.
func (w *Writer) drainOutbox() error {
	for len(w.outbox) > 0 {
		n, err := w.sink.PollWrite(w.outbox)
		w.cursor += uint64(n)
		w.outbox = w.outbox[n:]
		if err != nil {
			if err == ErrWouldBlock {
				return ErrWouldBlock
			}
			return fmt.Errorf("%w: %w", errStream, err)
		}
	}
	return nil
}

// beginOrResume is the shared entry point for every Poll* method: if a
// different operation is already in flight it refuses (a programming
// error); if this exact operation is already in flight it skips build
// and just resumes draining; otherwise it runs build once to perform
// the operation's synchronous work and populate the outbox.
func (w *Writer) beginOrResume(op opKind, build func() error) error {
	if w.inflight != opNone && w.inflight != op {
		return ErrOperationInProgress
	}
	if w.inflight == opNone {
		if err := build(); err != nil {
			return err
		}
		w.inflight = op
	}
	if err := w.drainOutbox(); err != nil {
		return err
	}
	w.inflight = opNone
	return nil
}

// finalizePending closes out the currently active entry's CRC, size
// bookkeeping, and compression pipeline, and returns the bytes still
// owed to the sink (any final compressed bytes followed by the data
// descriptor). It is pure: it performs no I/O.
func (w *Writer) finalizePending() ([]byte, error) {
	entry := &w.entries[w.pending.index]

	entry.CRC32 = w.crc.Sum32()
	w.crc.Reset()

	if !ziplayout.FitsUint32(w.pending.rawSize) {
		return nil, zipstream.ErrArchiveTooLarge
	}
	entry.RawSize = uint32(w.pending.rawSize)

	compressedSize, tail, err := w.pending.compressor.finish()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errStream, err)
	}
	entry.CompressedSize = compressedSize

	w.pending = nil
	return append(tail, ziplayout.DataDescriptor(entry.CRC32, entry.CompressedSize, entry.RawSize)...), nil
}

// PollCreateEntry commits any currently active entry, then begins a new
// one. See the Writer doc comment for the Poll* retry contract.
func (w *Writer) PollCreateEntry(name string, compression uint16, dateTime zipstream.DOSDateTime) error {
	if w.closed {
		return zipstream.ErrWriterClosed
	}
	if len(name) > 65535 {
		return fmt.Errorf("%w: entry name %d bytes exceeds 65535", zipstream.ErrInvalidInput, len(name))
	}

	return w.beginOrResume(opCreateEntry, func() error {
		var out []byte
		if w.pending != nil {
			tail, err := w.finalizePending()
			if err != nil {
				return err
			}
			out = tail
		}

		if !ziplayout.FitsUint32(w.cursor + uint64(len(out))) {
			return zipstream.ErrArchiveTooLarge
		}
		headerOffset := uint32(w.cursor + uint64(len(out)))

		out = append(out, ziplayout.LocalHeader(name, compression, dateTime.Bytes())...)

		comp, err := w.newCompressor(compression)
		if err != nil {
			return fmt.Errorf("%w: %w", errStream, err)
		}

		w.entries = append(w.entries, ziplayout.Entry{
			Name:              name,
			Compression:       compression,
			DateTime:          dateTime.Bytes(),
			LocalHeaderOffset: headerOffset,
		})
		w.pending = &activeEntry{index: len(w.entries) - 1, compressor: comp}
		w.crc.Reset()
		w.outbox = out
		return nil
	})
}

func (w *Writer) newCompressor(compression uint16) (asyncCompressor, error) {
	if compression == ziplayout.MethodDeflate {
		return newDeflateAsyncCompressor(w.level)
	}
	return newStoredAsyncCompressor(), nil
}

// PollWrite feeds bytes into the active entry's compression pipeline.
// The synchronous work (CRC update, compression) always completes in
// full on the first call; only pushing the resulting bytes to the sink
// may need retrying. If PollWrite returns ErrWouldBlock, call it again
// with the same p; the writer will not re-consume p on the retry.
func (w *Writer) PollWrite(p []byte) (int, error) {
	if w.inflight != opNone && w.inflight != opWrite {
		return 0, ErrOperationInProgress
	}
	if w.inflight == opNone {
		if w.pending == nil {
			return 0, zipstream.ErrNoActiveEntry
		}
		n, emitted, err := w.pending.compressor.write(p)
		if err != nil {
			return n, fmt.Errorf("%w: %w", errStream, err)
		}
		w.pending.rawSize += uint64(n)
		w.crc.Update(p[:n])
		w.outbox = emitted
		w.writeN = n
		w.inflight = opWrite
	}
	if err := w.drainOutbox(); err != nil {
		return 0, err
	}
	w.inflight = opNone
	return w.writeN, nil
}

// PollFlush flushes the active compression pipeline, if any, to the
// sink.
func (w *Writer) PollFlush() error {
	return w.beginOrResume(opFlush, func() error {
		if w.pending == nil {
			w.outbox = nil
			return nil
		}
		emitted, err := w.pending.compressor.flush()
		if err != nil {
			return fmt.Errorf("%w: %w", errStream, err)
		}
		w.outbox = emitted
		return nil
	})
}

// PollFinish commits any active entry, then writes the central
// directory and end-of-central-directory record. Once PollFinish
// returns nil the Writer is terminal.
func (w *Writer) PollFinish() error {
	if w.closed {
		return zipstream.ErrWriterClosed
	}

	err := w.beginOrResume(opFinish, func() error {
		var out []byte
		if w.pending != nil {
			tail, err := w.finalizePending()
			if err != nil {
				return err
			}
			out = tail
		}

		if !ziplayout.FitsUint32(w.cursor + uint64(len(out))) {
			return zipstream.ErrArchiveTooLarge
		}
		directoryStart := w.cursor + uint64(len(out))

		for _, entry := range w.entries {
			out = append(out, ziplayout.CentralDirectoryHeader(entry)...)
		}

		directorySize := w.cursor + uint64(len(out)) - directoryStart
		if !ziplayout.FitsUint32(directoryStart) || !ziplayout.FitsUint32(directorySize) {
			return zipstream.ErrArchiveTooLarge
		}
		if len(w.entries) > 65535 {
			return zipstream.ErrArchiveTooLarge
		}

		out = append(out, ziplayout.EndOfCentralDirectory(uint16(len(w.entries)), uint32(directorySize), uint32(directoryStart))...)
		w.outbox = out
		return nil
	})
	if err != nil {
		return err
	}
	w.closed = true
	return nil
}
