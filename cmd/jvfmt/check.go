// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jvalue"
	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// checkCommand reports whether each input is valid JSON.
type checkCommand struct {
	env    *env
	files  *[]string
	hujson *bool
}

func (cmd *checkCommand) run(c *kingpin.ParseContext) error {
	ok := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)

	p := cmd.env.parser(nil)
	names := inputs(*cmd.files)
	var nfail int
	for _, name := range names {
		err := cmd.check(p, name)
		fmt.Fprintf(cmd.env.stdout, "%s: ", displayName(name))
		if err == nil {
			ok.Fprintln(cmd.env.stdout, "OK")
			continue
		}
		nfail++
		fail.Fprint(cmd.env.stdout, "FAIL")
		fmt.Fprintf(cmd.env.stdout, " %v\n", err)
	}
	if nfail != 0 {
		return errors.Errorf("%d of %d inputs are not valid", nfail, len(names))
	}
	return nil
}

func (cmd *checkCommand) check(p *jvalue.Parser, name string) error {
	data, err := cmd.env.readInput(name, *cmd.hujson)
	if err != nil {
		return err
	}
	v, err := p.Parse(data)
	if err != nil {
		return err
	}
	v.Free()
	return nil
}

func addCheckCommand(app *kingpin.Application, e *env) {
	cmd := &checkCommand{env: e}
	cc := app.Command("check", "Report whether each input is valid JSON.").Action(cmd.run)
	cmd.hujson = cc.Flag("hujson", "Accept HuJSON input (comments and trailing commas)").Bool()
	cmd.files = cc.Arg("file", "The files to check.").Strings()
}
