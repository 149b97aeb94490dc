// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jvalue

import (
	"github.com/creachadair/jvalue/internal/escape"
	"github.com/creachadair/jvalue/internal/scratch"
	"github.com/pkg/errors"
	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	var buf scratch.Stack[byte]
	escape.Quote(&buf, mem.S(src))
	return string(buf.Pop(buf.Len()))
}

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
// Unquote reports an error if src is not a valid JSON string, possibly
// surrounded by whitespace.
func Unquote(src string) (string, error) {
	var p Parser
	v, err := p.Parse([]byte(src))
	if err != nil {
		return "", err
	}
	if v.kind != String {
		k := v.kind
		v.Free()
		return "", errors.Errorf("unquote: got %v, want string", k)
	}
	return v.s, nil
}
