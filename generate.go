// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jvalue

import (
	"fmt"
	"math"
	"strconv"

	"github.com/creachadair/jvalue/internal/escape"
	"github.com/creachadair/jvalue/internal/scratch"
	"go4.org/mem"
)

// Generate returns the compact JSON encoding of v. Object members are
// written in order of their keys.
func Generate(v *Value) []byte { return AppendJSON(nil, v) }

// AppendJSON appends the compact JSON encoding of v to dst and returns the
// extended slice.
func AppendJSON(dst []byte, v *Value) []byte {
	var g generator
	g.value(v)
	return append(dst, g.buf.Pop(g.buf.Len())...)
}

// String returns the compact JSON encoding of v.
func (v *Value) String() string { return string(Generate(v)) }

// Indent returns a multi-line JSON encoding of v. Each element of an array
// or object begins on a new line beginning with prefix followed by one or
// more copies of indent according to its nesting. Empty arrays and objects
// are written as [] and {}.
func Indent(v *Value, prefix, indent string) []byte {
	g := generator{pretty: true, prefix: prefix, indent: indent}
	g.value(v)
	return g.buf.PopCopy(g.buf.Len())
}

type generator struct {
	buf    scratch.Stack[byte]
	pretty bool
	prefix string
	indent string
	depth  int
}

func (g *generator) str(s string) { copy(g.buf.Push(len(s)), s) }

func (g *generator) newline() {
	if !g.pretty {
		return
	}
	g.buf.PushOne('\n')
	g.str(g.prefix)
	for range g.depth {
		g.str(g.indent)
	}
}

func (g *generator) value(v *Value) {
	switch v.kind {
	case Null:
		g.str("null")
	case Bool:
		if v.b {
			g.str("true")
		} else {
			g.str("false")
		}
	case Number:
		base := g.buf.Len()
		out := appendFloat(g.buf.Push(32)[:0], v.n)
		g.buf.Truncate(base + len(out))
	case String:
		escape.Quote(&g.buf, mem.S(v.s))
	case Array:
		if len(v.a) == 0 {
			g.str("[]")
			return
		}
		g.buf.PushOne('[')
		g.depth++
		for i := range v.a {
			if i > 0 {
				g.buf.PushOne(',')
			}
			g.newline()
			g.value(&v.a[i])
		}
		g.depth--
		g.newline()
		g.buf.PushOne(']')
	case Object:
		if v.o.Len() == 0 {
			g.str("{}")
			return
		}
		g.buf.PushOne('{')
		g.depth++
		first := true
		v.o.Each(func(key mem.RO, val *Value) bool {
			if !first {
				g.buf.PushOne(',')
			}
			first = false
			g.newline()
			escape.Quote(&g.buf, key)
			g.buf.PushOne(':')
			if g.pretty {
				g.buf.PushOne(' ')
			}
			g.value(val)
			return true
		})
		g.depth--
		g.newline()
		g.buf.PushOne('}')
	default:
		panic(fmt.Sprintf("jvalue: invalid kind %v", v.kind))
	}
}

// appendFloat appends the shortest decimal representation of f that parses
// back to the same float64. Exponent notation is used for magnitudes below
// 1e-6 or at least 1e21.
func appendFloat(dst []byte, f float64) []byte {
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		// Clean up e-09 to e-9.
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}
