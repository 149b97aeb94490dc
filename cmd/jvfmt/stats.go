// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jvalue"
	"github.com/creachadair/jvalue/slab"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// statsCommand prints value and allocator statistics for each input.
type statsCommand struct {
	env    *env
	files  *[]string
	hujson *bool
}

func (cmd *statsCommand) run(c *kingpin.ParseContext) error {
	for _, name := range inputs(*cmd.files) {
		if err := cmd.printStats(name); err != nil {
			return err
		}
	}
	return nil
}

// valueStats summarizes the shape of a value.
type valueStats struct {
	kinds    [jvalue.Object + 1]int // number of values of each kind
	members  int                    // total number of object members
	elements int                    // total number of array elements
	text     int                    // total length of strings and keys
	depth    int                    // maximum nesting depth
}

func (s *valueStats) add(v *jvalue.Value, depth int) {
	s.kinds[v.Kind()]++
	s.depth = max(s.depth, depth)
	switch v.Kind() {
	case jvalue.String:
		s.text += v.Len()
	case jvalue.Array:
		for _, elt := range v.Elements() {
			s.elements++
			s.add(elt, depth+1)
		}
	case jvalue.Object:
		for key, val := range v.Members() {
			s.members++
			s.text += len(key)
			s.add(val, depth+1)
		}
	}
}

func (cmd *statsCommand) printStats(name string) error {
	data, err := cmd.env.readInput(name, *cmd.hujson)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	p := cmd.env.parser(slab.NewMetrics(reg))
	v, err := p.Parse(data)
	if err != nil {
		return errors.Wrapf(err, "parse %s", displayName(name))
	}
	defer v.Free()

	var vs valueStats
	vs.add(&v, 0)

	w := cmd.env.stdout
	bold := color.New(color.Bold)
	bold.Fprintf(w, "%s: %s input, max depth %d\n", displayName(name), humanize.Bytes(uint64(len(data))), vs.depth)
	for k, n := range vs.kinds {
		if n != 0 {
			fmt.Fprintf(w, "\t%-8s %s\n", jvalue.Kind(k), humanize.Comma(int64(n)))
		}
	}
	fmt.Fprintf(w, "\t%d elements, %d members, %s of text\n",
		vs.elements, vs.members, humanize.Bytes(uint64(vs.text)))

	st := p.Arena.Stats()
	bold.Fprintln(w, "Allocator:")
	fmt.Fprintf(w, "\theap: %v in %d regions, %v unused, %v free\n",
		humanize.Bytes(uint64(st.HeapBytes)), st.Regions,
		humanize.Bytes(uint64(st.Unused)), humanize.Bytes(uint64(st.FreeBytes())))
	fmt.Fprintf(w, "\tlarge blocks: %d (%v)\n", st.LargeBlocks, humanize.Bytes(uint64(st.LargeBytes)))

	mfs, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	bold.Fprintln(w, "Metrics:")
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			var val float64
			if c := m.GetCounter(); c != nil {
				val = c.GetValue()
			} else if g := m.GetGauge(); g != nil {
				val = g.GetValue()
			}
			fmt.Fprintf(w, "\t%s %v\n", mf.GetName(), val)
		}
	}
	return nil
}

func addStatsCommand(app *kingpin.Application, e *env) {
	cmd := &statsCommand{env: e}
	sc := app.Command("stats", "Print value and allocator statistics for each input.").Action(cmd.run)
	cmd.hujson = sc.Flag("hujson", "Accept HuJSON input (comments and trailing commas)").Bool()
	cmd.files = sc.Arg("file", "The files to inspect.").Strings()
}
