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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-zipstream/zipstream"
)

// flakySink accepts at most maxPerCall bytes per call and returns
// ErrWouldBlock on every blockEvery-th call, simulating a sink whose
// readiness comes and goes.
type flakySink struct {
	buf        bytes.Buffer
	maxPerCall int
	blockEvery int
	calls      int
}

func (f *flakySink) PollWrite(p []byte) (int, error) {
	f.calls++
	if f.blockEvery > 0 && f.calls%f.blockEvery == 0 {
		return 0, ErrWouldBlock
	}
	if f.maxPerCall > 0 && len(p) > f.maxPerCall {
		p = p[:f.maxPerCall]
	}
	return f.buf.Write(p)
}

// drainUntilDone repeatedly calls op (a PollCreateEntry/PollFlush/
// PollFinish-shaped call) until it stops returning ErrWouldBlock.
func drainUntilDone(t *testing.T, op func() error) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		err := op()
		if err == nil {
			return
		}
		if !errors.Is(err, ErrWouldBlock) {
			t.Fatalf("operation failed: %v", err)
		}
	}
	t.Fatal("operation never completed after 10000 retries")
}

func TestAsyncWriterMatchesSyncGolden(t *testing.T) {
	t.Parallel()

	sink := &flakySink{maxPerCall: 3, blockEvery: 4}
	w := NewWriter(sink)

	drainUntilDone(t, func() error {
		return w.PollCreateEntry("1.txt", zipstream.MethodStored, zipstream.DefaultDOSDateTime())
	})

	payload := []byte("Some data\n")
	for len(payload) > 0 {
		n, err := w.PollWrite(payload)
		if err != nil && !errors.Is(err, ErrWouldBlock) {
			t.Fatalf("PollWrite() = %v", err)
		}
		if err == nil {
			payload = payload[n:]
		}
		// On ErrWouldBlock, retry with the same payload per contract.
	}

	drainUntilDone(t, w.PollFinish)

	want := []byte{
		// Local file header.
		0x50, 0x4B, 0x03, 0x04,
		0x14, 0x00,
		0x08, 0x08,
		0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x05, 0x00,
		0x00, 0x00,
		'1', '.', 't', 'x', 't',
		// Payload.
		'S', 'o', 'm', 'e', ' ', 'd', 'a', 't', 'a', '\n',
		// Data descriptor.
		0xC9, 0xFA, 0x5C, 0x87,
		0x0A, 0x00, 0x00, 0x00,
		0x0A, 0x00, 0x00, 0x00,
		// Central directory file header.
		0x50, 0x4B, 0x01, 0x02,
		0x00, 0x00,
		0x14, 0x00,
		0x08, 0x08,
		0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0xC9, 0xFA, 0x5C, 0x87,
		0x0A, 0x00, 0x00, 0x00,
		0x0A, 0x00, 0x00, 0x00,
		0x05, 0x00,
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		'1', '.', 't', 'x', 't',
		// End of central directory.
		0x50, 0x4B, 0x05, 0x06,
		0x00, 0x00,
		0x00, 0x00,
		0x01, 0x00,
		0x01, 0x00,
		0x33, 0x00, 0x00, 0x00,
		0x39, 0x00, 0x00, 0x00,
		0x00, 0x00,
	}
	if diff := cmp.Diff(want, sink.buf.Bytes()); diff != "" {
		t.Errorf("archive bytes (-want, +got):\n%s", diff)
	}
}

func TestAsyncWriterNoEntries(t *testing.T) {
	t.Parallel()

	sink := &flakySink{blockEvery: 2}
	w := NewWriter(sink)
	drainUntilDone(t, w.PollFinish)

	want := []byte{
		0x50, 0x4B, 0x05, 0x06,
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00,
	}
	if diff := cmp.Diff(want, sink.buf.Bytes()); diff != "" {
		t.Errorf("archive bytes (-want, +got):\n%s", diff)
	}
}

func TestAsyncWriterConflictingOperation(t *testing.T) {
	t.Parallel()

	sink := &flakySink{blockEvery: 1} // always blocks
	w := NewWriter(sink)

	err := w.PollCreateEntry("1.txt", zipstream.MethodStored, zipstream.DefaultDOSDateTime())
	if !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("PollCreateEntry() = %v, want ErrWouldBlock", err)
	}

	if err := w.PollFinish(); !errors.Is(err, ErrOperationInProgress) {
		t.Fatalf("PollFinish() while create is in flight = %v, want ErrOperationInProgress", err)
	}
}

func TestAsyncWriterWriteWithNoActiveEntry(t *testing.T) {
	t.Parallel()

	sink := &flakySink{}
	w := NewWriter(sink)
	_, err := w.PollWrite([]byte("orphan"))
	if !errors.Is(err, zipstream.ErrNoActiveEntry) {
		t.Fatalf("PollWrite() = %v, want ErrNoActiveEntry", err)
	}
}
