// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jvalue

import "fmt"

// A Code identifies the kind of syntax error reported by the parser.
// Codes satisfy the error interface, so that a *SyntaxError may be matched
// against a code with errors.Is.
type Code byte

const (
	ExpectValue              Code = iota + 1 // input is empty or only whitespace
	InvalidValue                             // malformed literal or number
	RootNotSingular                          // content after the root value
	NumberTooBig                             // number out of range for float64
	MissQuotationMark                        // unterminated string
	InvalidStringEscape                      // unknown escape sequence
	InvalidStringChar                        // unescaped control character in a string
	InvalidUnicodeHex                        // malformed \u escape
	InvalidUnicodeSurrogate                  // unpaired or invalid surrogate
	MissCommaOrSquareBracket                 // array element not followed by , or ]
	MissKey                                  // object member without a string key
	MissColon                                // object key not followed by :
	MissCommaOrCurlyBracket                  // object member not followed by , or }
)

var codeText = [...]string{
	ExpectValue:              "expect value",
	InvalidValue:             "invalid value",
	RootNotSingular:          "root not singular",
	NumberTooBig:             "number too big",
	MissQuotationMark:        "miss quotation mark",
	InvalidStringEscape:      "invalid string escape",
	InvalidStringChar:        "invalid string char",
	InvalidUnicodeHex:        "invalid unicode hex",
	InvalidUnicodeSurrogate:  "invalid unicode surrogate",
	MissCommaOrSquareBracket: "miss comma or square bracket",
	MissKey:                  "miss key",
	MissColon:                "miss colon",
	MissCommaOrCurlyBracket:  "miss comma or curly bracket",
}

// Error satisfies the error interface.
func (c Code) Error() string {
	if c > 0 && int(c) < len(codeText) {
		return codeText[c]
	}
	return fmt.Sprintf("unknown error code %d", byte(c))
}

// Codes returns all the defined error codes in order.
func Codes() []Code {
	out := make([]Code, 0, len(codeText)-1)
	for c := ExpectValue; int(c) < len(codeText); c++ {
		out = append(out, c)
	}
	return out
}

// SyntaxError is the concrete type of errors reported by the parser for
// malformed input.
type SyntaxError struct {
	Code     Code    // what went wrong
	Offset   int     // byte offset of the error in the input, 0-based
	Location LineCol // line and column of the error

	err error // the underlying error, if any
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	if s.err != nil {
		return fmt.Sprintf("at %s: %v: %v", s.Location, s.Code, s.err)
	}
	return fmt.Sprintf("at %s: %v", s.Location, s.Code)
}

// Unwrap supports error wrapping. A SyntaxError wraps its Code, and the
// error that caused it, if any.
func (s *SyntaxError) Unwrap() []error {
	if s.err != nil {
		return []error{s.Code, s.err}
	}
	return []error{s.Code}
}
