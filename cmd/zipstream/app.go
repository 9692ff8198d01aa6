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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"sigs.k8s.io/release-utils/version"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = errors.New("parsing flags")

// ErrCLI wraps errors produced by this command.
var ErrCLI = errors.New("zipstream")

func init() {
	// See github.com/urfave/cli/issues/1809: without this, `--help foo`
	// fails with a "command foo not found" error instead of printing
	// help, since this app takes file path arguments rather than
	// subcommands.
	cli.HelpFlag = &cli.BoolFlag{
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

func must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

func newApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Stream files into a ZIP archive.",
		Description: strings.Join([]string{
			"zipstream writes a ZIP archive to a file or to stdout one entry at a time,",
			"without seeking: https://github.com/go-zipstream/zipstream",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Usage:   "archive path to write; defaults to stdout",
				Aliases: []string{"o"},
			},
			&cli.BoolFlag{
				Name:               "stored",
				Usage:              "store entries uncompressed instead of using DEFLATE",
				Aliases:            []string{"0"},
				DisableDefaultText: true,
			},
			&cli.IntFlag{
				Name:  "level",
				Usage: "DEFLATE compression level, -2 (huffman-only) to 9 (best)",
				Value: -1,
			},
			&cli.BoolFlag{
				Name:               "list",
				Usage:              "print a summary table of the entries written",
				Aliases:            []string{"l"},
				DisableDefaultText: true,
			},

			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"v"},
				DisableDefaultText: true,
			},
		},
		ArgsUsage:       "FILE...",
		Copyright:       "The zipstream Authors",
		HideHelp:        true,
		HideHelpCommand: true,
		Action: func(c *cli.Context) error {
			if c.Bool("help") {
				check(cli.ShowAppHelp(c))
				return nil
			}

			if c.Bool("version") {
				return printVersion(c)
			}

			if c.NArg() == 0 {
				return fmt.Errorf("%w: no input files given", ErrFlagParse)
			}

			a := &createArchive{
				paths:  c.Args().Slice(),
				output: c.String("output"),
				stored: c.Bool("stored"),
				level:  c.Int("level"),
				list:   c.Bool("list"),
			}
			return a.Run(c)
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			_ = must(fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", c.App.Name, err))
			if errors.Is(err, ErrFlagParse) {
				cli.OsExiter(ExitCodeFlagParseError)
				return
			}
			cli.OsExiter(ExitCodeUnknownError)
		},
	}
}

// check panics if err is non-nil, used for the small set of calls whose
// errors genuinely cannot occur given how they're invoked here (writing
// to an already-validated cli.Context's own writer).
func check(err error) {
	if err != nil {
		panic(err)
	}
}
