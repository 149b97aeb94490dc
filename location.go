// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jvalue

import (
	"bytes"
	"fmt"
)

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// locate returns the line and column of offset off in text.
func locate(text []byte, off int) LineCol {
	off = min(off, len(text))
	head := text[:off]
	line := bytes.Count(head, []byte("\n"))
	col := off - (bytes.LastIndexByte(head, '\n') + 1)
	return LineCol{Line: line + 1, Column: col}
}
