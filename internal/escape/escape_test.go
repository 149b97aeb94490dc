// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"
	"unicode/utf8"

	"github.com/creachadair/jvalue/internal/escape"
	"github.com/creachadair/jvalue/internal/scratch"
	"go4.org/mem"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", `""`},
		{"abc", `"abc"`},
		{`a "b" c`, `"a \"b\" c"`},
		{`x\y`, `"x\\y"`},
		{"/", `"/"`},
		{"\b\f\n\r\t", `"\b\f\n\r\t"`},
		{"\x00\x01\x1f", `"\u0000\u0001\u001f"`},
		{"\x7f", "\"\x7f\""},
		{"€ and 𝄞", `"€ and 𝄞"`},
		{"\xff\xfe", "\"\xff\xfe\""},
		{" ", "\" \""},
	}
	var buf scratch.Stack[byte]
	for _, tc := range tests {
		buf.Append('#')
		escape.Quote(&buf, mem.S(tc.input))
		if got := string(buf.Pop(buf.Len() - 1)); got != tc.want {
			t.Errorf("Quote(%q): got %#q, want %#q", tc.input, got, tc.want)
		}
		if got := string(buf.Pop(1)); got != "#" {
			t.Errorf("Quote(%q) clobbered the buffer: got %q", tc.input, got)
		}
	}
}

func TestParseHex4(t *testing.T) {
	tests := []struct {
		input string
		want  rune
		ok    bool
	}{
		{"0000", 0, true},
		{"00e9", 0xe9, true},
		{"00E9", 0xe9, true},
		{"D834xyz", 0xd834, true},
		{"ffff", 0xffff, true},
		{"", 0, false},
		{"123", 0, false},
		{"12g4", 0, false},
		{"-123", 0, false},
	}
	for _, tc := range tests {
		got, ok := escape.ParseHex4(mem.S(tc.input))
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseHex4(%q): got (%x, %v), want (%x, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSurrogates(t *testing.T) {
	if !escape.IsHighSurrogate(0xd834) || escape.IsHighSurrogate(0xdd1e) {
		t.Error("IsHighSurrogate misclassified")
	}
	if !escape.IsLowSurrogate(0xdd1e) || escape.IsLowSurrogate(0xd834) {
		t.Error("IsLowSurrogate misclassified")
	}
	if got := escape.CombineSurrogates(0xd834, 0xdd1e); got != 0x1d11e {
		t.Errorf("CombineSurrogates: got %U, want U+1D11E", got)
	}
	if got := escape.CombineSurrogates(0xd834, 'x'); got != utf8.RuneError {
		t.Errorf("CombineSurrogates: got %U, want U+FFFD", got)
	}
}

func TestPutRune(t *testing.T) {
	var buf scratch.Stack[byte]
	for _, r := range []rune{'A', 0xe9, 0x20ac, 0x1d11e, 0} {
		escape.PutRune(&buf, r)
	}
	if got, want := string(buf.Pop(buf.Len())), "Aé€\U0001d11e\x00"; got != want {
		t.Errorf("PutRune: got %q, want %q", got, want)
	}
}
