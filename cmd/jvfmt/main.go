// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jvfmt formats, checks, and reports statistics for JSON files.
//
// Usage:
//
//	jvfmt [--debug] [--heap-limit=SIZE] <command> [flags] FILE...
//
// Each command reads the named files in order. The name "-", or an empty
// list of files, reads standard input.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/alecthomas/units"
	"github.com/creachadair/jvalue"
	"github.com/creachadair/jvalue/slab"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
)

// env carries the settings and I/O streams shared by all commands.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	debug     bool
	heapLimit units.Base2Bytes
}

func main() {
	e := &env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	app := newApp(e)
	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func newApp(e *env) *kingpin.Application {
	app := kingpin.New("jvfmt", "Format, check, and inspect JSON files.")
	app.UsageWriter(e.stdout).ErrorWriter(e.stderr)
	app.Flag("debug", "Enable debug logging").BoolVar(&e.debug)
	app.Flag("heap-limit", "Maximum heap size for the object allocator (0 means no limit)").
		Default("0B").BytesVar(&e.heapLimit)

	addFmtCommand(app, e)
	addCheckCommand(app, e)
	addStatsCommand(app, e)
	return app
}

// logger returns the logger for allocator diagnostics. Without --debug only
// warnings and errors are written.
func (e *env) logger() log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(e.stderr))
	if e.debug {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowWarn())
}

// parser returns a parser whose objects are allocated from a new allocator
// with the given metrics, which may be nil.
func (e *env) parser(m *slab.Metrics) *jvalue.Parser {
	return &jvalue.Parser{Arena: slab.New(&slab.Options{
		HeapLimit: int(e.heapLimit),
		Logger:    e.logger(),
		Metrics:   m,
	})}
}

// inputs returns the list of input names, defaulting to standard input.
// The argument parser delivers "-" as an empty string, so an empty name
// also selects standard input.
func inputs(files []string) []string {
	if len(files) == 0 {
		return []string{"-"}
	}
	out := make([]string, len(files))
	for i, name := range files {
		if name == "" {
			name = "-"
		}
		out[i] = name
	}
	return out
}

// readInput reads the contents of the named file, or standard input if
// name == "-". If hj is true, the input is HuJSON and is converted to
// standard JSON.
func (e *env) readInput(name string, hj bool) ([]byte, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(e.stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	if hj {
		data, err = hujson.Standardize(data)
		if err != nil {
			return nil, errors.Wrapf(err, "standardize %s", displayName(name))
		}
	}
	return data, nil
}

func displayName(name string) string {
	if name == "-" {
		return "<stdin>"
	}
	return name
}
