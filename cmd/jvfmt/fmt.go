// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jvalue"
	"github.com/pkg/errors"
)

// fmtCommand parses each input and writes it back in canonical form.
type fmtCommand struct {
	env    *env
	files  *[]string
	indent *string
	hujson *bool
}

func (cmd *fmtCommand) run(c *kingpin.ParseContext) error {
	p := cmd.env.parser(nil)
	for _, name := range inputs(*cmd.files) {
		data, err := cmd.env.readInput(name, *cmd.hujson)
		if err != nil {
			return err
		}
		v, err := p.Parse(data)
		if err != nil {
			return errors.Wrapf(err, "parse %s", displayName(name))
		}
		var out []byte
		if *cmd.indent == "" {
			out = jvalue.Generate(&v)
		} else {
			out = jvalue.Indent(&v, "", *cmd.indent)
		}
		v.Free()
		if _, err := cmd.env.stdout.Write(append(out, '\n')); err != nil {
			return errors.Wrap(err, "write output")
		}
	}
	return nil
}

func addFmtCommand(app *kingpin.Application, e *env) {
	cmd := &fmtCommand{env: e}
	fc := app.Command("fmt", "Print each input in compact or indented form.").Action(cmd.run)
	cmd.indent = fc.Flag("indent", "Indent nested values with this string (empty for compact output)").String()
	cmd.hujson = fc.Flag("hujson", "Accept HuJSON input (comments and trailing commas)").Bool()
	cmd.files = fc.Arg("file", "The files to format.").Strings()
}
