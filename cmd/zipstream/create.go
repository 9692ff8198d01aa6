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

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/go-zipstream/zipstream"
	"github.com/go-zipstream/zipstream/internal/ziplayout"
)

// createArchive is the "create" action: stream each input path into a
// new ZIP archive as its own entry, in order.
type createArchive struct {
	paths  []string
	output string
	stored bool
	level  int
	list   bool
}

func (a *createArchive) Run(c *cli.Context) error {
	sink := c.App.Writer
	if a.output != "" {
		f, err := os.OpenFile(a.output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("%w: opening output: %w", ErrCLI, err)
		}
		defer f.Close()
		sink = f
	}

	w := zipstream.NewWriterLevel(sink, a.level)

	method := zipstream.MethodDeflate
	if a.stored {
		method = zipstream.MethodStored
	}

	for _, path := range a.paths {
		if err := a.addFile(w, path, method); err != nil {
			return err
		}
	}

	if err := w.Finish(); err != nil {
		return fmt.Errorf("%w: finishing archive: %w", ErrCLI, err)
	}

	if a.list {
		printEntryTable(w.Entries())
	}

	return nil
}

func (a *createArchive) addFile(w *zipstream.Writer, path string, method uint16) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", ErrCLI, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %q: %w", ErrCLI, path, err)
	}

	name := filepath.Base(path)
	dt := zipstream.NewDOSDateTime(info.ModTime())
	if err := w.CreateEntry(name, method, dt); err != nil {
		return fmt.Errorf("%w: creating entry %q: %w", ErrCLI, name, err)
	}

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("%w: writing %q: %w", ErrCLI, name, err)
	}

	return nil
}

func printEntryTable(entries []ziplayout.Entry) {
	tbl := table.New("method", "crc32", "compressed", "uncompressed", "ratio", "name")
	for _, e := range entries {
		method := "deflate"
		if e.Compression == zipstream.MethodStored {
			method = "stored"
		}
		ratio := 0.0
		if e.RawSize > 0 {
			ratio = (1 - float64(e.CompressedSize)/float64(e.RawSize)) * 100
		}
		tbl.AddRow(
			method,
			fmt.Sprintf("%08x", e.CRC32),
			fmt.Sprintf("%d", e.CompressedSize),
			fmt.Sprintf("%d", e.RawSize),
			fmt.Sprintf("%.1f%%", ratio),
			e.Name,
		)
	}
	tbl.Print()
}
