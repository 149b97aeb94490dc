// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jvalue

import (
	"math"

	"github.com/creachadair/jvalue/internal/escape"
	"github.com/creachadair/jvalue/internal/scratch"
	"github.com/creachadair/jvalue/slab"
	"github.com/pkg/errors"
	"go4.org/mem"
)

// A Parser parses JSON text into values. The zero Parser is ready for use.
// A Parser reuses its internal buffers across calls to Parse, but must not be
// used by multiple goroutines concurrently.
type Parser struct {
	// Arena, if non-nil, is the allocator used for the objects in parsed
	// values. If nil, each call to Parse creates a new allocator when it
	// first needs one, shared by all the objects in the resulting value.
	Arena *slab.Allocator

	// MaxDepth, if positive, is the maximum nesting depth of arrays and
	// objects. If zero, DefaultMaxDepth is used. If negative, nesting is
	// limited only by the stack.
	MaxDepth int

	text  []byte
	pos   int
	depth int
	arena *slab.Allocator

	buf  scratch.Stack[byte]  // decoded string contents
	vals scratch.Stack[Value] // pending array elements
}

// DefaultMaxDepth is the nesting limit of a Parser whose MaxDepth is zero.
const DefaultMaxDepth = 100000

// ErrTooDeep is reported by Parse when the input nests arrays and objects
// more deeply than the parser allows.
var ErrTooDeep = errors.New("jvalue: nesting too deep")

// Parse parses text as a single JSON value using a new Parser.
func Parse(text []byte) (Value, error) {
	var p Parser
	return p.Parse(text)
}

// Parse parses text as a single JSON value, optionally surrounded by
// whitespace. If text is not valid JSON, Parse returns Null and an error of
// concrete type *SyntaxError. If an allocation fails, the error wraps
// slab.ErrOutOfMemory, and if the input nests too deeply, the error wraps
// ErrTooDeep.
func (p *Parser) Parse(text []byte) (Value, error) {
	p.text, p.pos, p.depth, p.arena = text, 0, 0, p.Arena
	defer func() { p.text = nil }()

	var v Value
	p.skipWS()
	err := p.parseValue(&v)
	if err == nil {
		p.skipWS()
		if p.pos < len(p.text) {
			err = p.abandon(&v, p.fail(RootNotSingular))
		}
	}
	if p.buf.Len() != 0 || p.vals.Len() != 0 {
		panic("jvalue: unbalanced parse buffers")
	}
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// peek returns the next byte of input, or -1 at the end of input.
func (p *Parser) peek() int {
	if p.pos < len(p.text) {
		return int(p.text[p.pos])
	}
	return -1
}

func (p *Parser) skipWS() {
	for p.pos < len(p.text) {
		switch p.text[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *Parser) fail(code Code) *SyntaxError {
	return &SyntaxError{Code: code, Offset: p.pos, Location: locate(p.text, p.pos)}
}

func (p *Parser) failAt(pos int, code Code) *SyntaxError {
	p.pos = pos
	return p.fail(code)
}

func (p *Parser) noMemory(err error) error {
	return errors.Wrapf(err, "parse at offset %d", p.pos)
}

// abandon frees the partial value v and returns err.
func (p *Parser) abandon(v *Value, err error) error {
	v.Free()
	return err
}

// parseValue parses a value at the current position, which is not
// whitespace, into v.
func (p *Parser) parseValue(v *Value) error {
	switch p.peek() {
	case 't':
		return p.parseLiteral(v, "true", NewBool(true))
	case 'f':
		return p.parseLiteral(v, "false", NewBool(false))
	case 'n':
		return p.parseLiteral(v, "null", Value{})
	case '"':
		s, err := p.parseString()
		if err != nil {
			return err
		}
		v.kind, v.s = String, s
		return nil
	case '[', '{':
		if limit := p.maxDepth(); limit > 0 && p.depth >= limit {
			return errors.Wrapf(ErrTooDeep, "parse at offset %d", p.pos)
		}
		p.depth++
		var err error
		if p.peek() == '[' {
			err = p.parseArray(v)
		} else {
			err = p.parseObject(v)
		}
		p.depth--
		return err
	case -1:
		return p.fail(ExpectValue)
	default:
		return p.parseNumber(v)
	}
}

func (p *Parser) maxDepth() int {
	if p.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

func (p *Parser) parseLiteral(v *Value, lit string, want Value) error {
	if !mem.HasPrefix(mem.B(p.text[p.pos:]), mem.S(lit)) {
		return p.fail(InvalidValue)
	}
	p.pos += len(lit)
	*v = want
	return nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func (p *Parser) parseNumber(v *Value) error {
	start, i := p.pos, p.pos
	text := p.text
	digits := func() bool {
		n := i
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		return i > n
	}

	if i < len(text) && text[i] == '-' {
		i++
	}
	if i < len(text) && text[i] == '0' {
		i++
	} else if i == len(text) || text[i] < '1' || text[i] > '9' || !digits() {
		return p.fail(InvalidValue)
	}
	if i < len(text) && text[i] == '.' {
		i++
		if !digits() {
			return p.fail(InvalidValue)
		}
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		i++
		if i < len(text) && (text[i] == '+' || text[i] == '-') {
			i++
		}
		if !digits() {
			return p.fail(InvalidValue)
		}
	}

	// The syntax is already checked, so the only possible error is a range
	// error. Underflow yields zero, which is accepted.
	f, _ := mem.ParseFloat(mem.B(text[start:i]), 64)
	if math.IsInf(f, 0) {
		return p.fail(NumberTooBig)
	}
	p.pos = i
	v.kind, v.n = Number, f
	return nil
}

// parseString parses a string at the current position, which is a double
// quotation mark, and returns its decoded contents.
func (p *Parser) parseString() (string, *SyntaxError) {
	mark := p.buf.Len()
	fail := func(pos int, code Code) (string, *SyntaxError) {
		p.buf.Truncate(mark)
		return "", p.failAt(pos, code)
	}

	text := p.text
	i := p.pos + 1
	for {
		if i >= len(text) {
			return fail(i, MissQuotationMark)
		}
		c := text[i]
		switch {
		case c == '"':
			s := string(p.buf.Pop(p.buf.Len() - mark))
			p.pos = i + 1
			return s, nil

		case c == '\\':
			esc := i
			i++
			if i >= len(text) {
				return fail(esc, InvalidStringEscape)
			}
			switch e := text[i]; e {
			case '"', '\\', '/':
				p.buf.PushOne(e)
			case 'b':
				p.buf.PushOne('\b')
			case 'f':
				p.buf.PushOne('\f')
			case 'n':
				p.buf.PushOne('\n')
			case 'r':
				p.buf.PushOne('\r')
			case 't':
				p.buf.PushOne('\t')
			case 'u':
				r, ok := escape.ParseHex4(mem.B(text[i+1:]))
				if !ok {
					return fail(esc, InvalidUnicodeHex)
				}
				i += 4
				if escape.IsHighSurrogate(r) {
					if i+2 >= len(text) || text[i+1] != '\\' || text[i+2] != 'u' {
						return fail(esc, InvalidUnicodeSurrogate)
					}
					lo, ok := escape.ParseHex4(mem.B(text[i+3:]))
					if !ok {
						return fail(i+1, InvalidUnicodeHex)
					} else if !escape.IsLowSurrogate(lo) {
						return fail(esc, InvalidUnicodeSurrogate)
					}
					r = escape.CombineSurrogates(r, lo)
					i += 6
				} else if escape.IsLowSurrogate(r) {
					return fail(esc, InvalidUnicodeSurrogate)
				}
				escape.PutRune(&p.buf, r)
			default:
				return fail(esc, InvalidStringEscape)
			}
			i++

		case c < ' ':
			return fail(i, InvalidStringChar)

		default:
			p.buf.PushOne(c)
			i++
		}
	}
}

func (p *Parser) parseArray(v *Value) error {
	p.pos++
	p.skipWS()
	if p.peek() == ']' {
		p.pos++
		v.kind, v.a = Array, nil
		return nil
	}

	mark := p.vals.Len()
	drop := func(err error) error {
		es := p.vals.Pop(p.vals.Len() - mark)
		for i := range es {
			es[i].Free()
		}
		return err
	}
	for {
		var elt Value
		if err := p.parseValue(&elt); err != nil {
			return drop(err)
		}
		p.vals.PushOne(elt)
		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipWS()
		case ']':
			p.pos++
			v.kind, v.a = Array, p.vals.PopCopy(p.vals.Len()-mark)
			return nil
		default:
			return drop(p.fail(MissCommaOrSquareBracket))
		}
	}
}

func (p *Parser) parseObject(v *Value) error {
	p.pos++
	p.skipWS()
	if p.arena == nil {
		p.arena = slab.New(nil)
	}
	v.SetObject(p.arena)
	if p.peek() == '}' {
		p.pos++
		return nil
	}

	for {
		if p.peek() != '"' {
			return p.abandon(v, p.fail(MissKey))
		}
		key, serr := p.parseString()
		if serr != nil {
			return p.abandon(v, &SyntaxError{
				Code:     MissKey,
				Offset:   serr.Offset,
				Location: serr.Location,
				err:      serr.Code,
			})
		}
		p.skipWS()
		if p.peek() != ':' {
			return p.abandon(v, p.fail(MissColon))
		}
		p.pos++
		p.skipWS()

		var val Value
		if err := p.parseValue(&val); err != nil {
			return p.abandon(v, err)
		}
		if err := v.o.Insert(key, val); err != nil {
			val.Free()
			return p.abandon(v, p.noMemory(err))
		}

		p.skipWS()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipWS()
		case '}':
			p.pos++
			return nil
		default:
			return p.abandon(v, p.fail(MissCommaOrCurlyBracket))
		}
	}
}
