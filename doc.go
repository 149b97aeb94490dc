// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jvalue implements an in-memory JSON value model with a parser and
// a generator.
//
// # Parsing
//
// Parse converts JSON text into a Value. The text must contain exactly one
// JSON value, optionally surrounded by whitespace:
//
//	v, err := jvalue.Parse([]byte(`{"name": "x", "tags": [1, 2, 3]}`))
//	if err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//	defer v.Free()
//
// A syntax error is reported as a *SyntaxError, which carries a Code that
// identifies the problem and the location of the error in the input. Use
// errors.Is to check for a specific code:
//
//	if errors.Is(err, jvalue.MissColon) { ... }
//
// To reuse buffers across many inputs, or to control the allocator used for
// objects, use a Parser:
//
//	p := &jvalue.Parser{Arena: slab.New(nil)}
//	v, err := p.Parse(input)
//
// # Values
//
// A Value is one of Null, Bool, Number, String, Array or Object. Numbers are
// float64 values. The members of an object are kept in lexicographic order
// of their keys, and each key occurs at most once; when a key is repeated in
// the input, the last value wins.
//
// A Value owns its contents. AddElement and AddMember store copies of their
// arguments, so the caller remains responsible for the originals. Free
// releases the contents of a value and resets it to Null.
//
// # Generating
//
// Generate and AppendJSON produce the compact JSON encoding of a value.
// Numbers are written in the shortest form that parses back to the same
// float64, so parsing the output of Generate yields an equal value. Indent
// produces a multi-line encoding for display.
package jvalue
