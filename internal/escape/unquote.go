// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting of JSON strings and the pieces of unquoting
// that do not depend on the parser.
package escape

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/creachadair/jvalue/internal/scratch"
	"go4.org/mem"
)

// ParseHex4 decodes the four hexadecimal digits at the front of src. It
// reports false if src is shorter than 4 bytes or any of the digits is
// invalid. Both upper- and lower-case digits are accepted.
func ParseHex4(src mem.RO) (rune, bool) {
	if src.Len() < 4 {
		return 0, false
	}
	var v rune
	for i := range 4 {
		b := src.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += rune(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += rune(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += rune(b - 'A' + 10)
		} else {
			return 0, false
		}
	}
	return v, true
}

// IsHighSurrogate reports whether r is the first half of a UTF-16 surrogate
// pair.
func IsHighSurrogate(r rune) bool { return r >= 0xd800 && r <= 0xdbff }

// IsLowSurrogate reports whether r is the second half of a UTF-16 surrogate
// pair.
func IsLowSurrogate(r rune) bool { return r >= 0xdc00 && r <= 0xdfff }

// CombineSurrogates returns the code point encoded by the surrogate pair hi,
// lo. It returns utf8.RuneError if the pair is not valid.
func CombineSurrogates(hi, lo rune) rune { return utf16.DecodeRune(hi, lo) }

// PutRune pushes the UTF-8 encoding of r onto buf.
func PutRune(buf *scratch.Stack[byte], r rune) {
	out := buf.Push(utf8.UTFMax)
	n := utf8.EncodeRune(out, r)
	buf.Truncate(buf.Len() - utf8.UTFMax + n)
}
