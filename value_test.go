// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jvalue_test

import (
	"errors"
	"math"
	"testing"

	"github.com/creachadair/jvalue"
	"github.com/creachadair/jvalue/internal/testutil"
	"github.com/creachadair/jvalue/slab"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

func TestSetters(t *testing.T) {
	var v jvalue.Value
	if v.Kind() != jvalue.Null {
		t.Errorf("Zero value: got %v, want null", v.Kind())
	}

	v.SetString("a")
	v.SetNull()
	if v.Kind() != jvalue.Null {
		t.Errorf("SetNull: got %v, want null", v.Kind())
	}

	v.SetString("a")
	v.SetBool(true)
	if !v.Bool() {
		t.Error("SetBool(true): got false")
	}
	v.SetBool(false)
	if v.Bool() {
		t.Error("SetBool(false): got true")
	}

	v.SetString("a")
	v.SetNumber(1234.5)
	if got := v.Float64(); got != 1234.5 {
		t.Errorf("SetNumber: got %v, want 1234.5", got)
	}

	v.SetString("")
	if got := v.Text(); got != "" || v.Len() != 0 {
		t.Errorf("SetString empty: got %q (len %d)", got, v.Len())
	}
	v.SetString("Hello")
	if got := v.Text(); got != "Hello" || v.Len() != 5 {
		t.Errorf("SetString: got %q (len %d), want Hello", got, v.Len())
	}

	v.SetArray()
	if v.Kind() != jvalue.Array || v.Len() != 0 {
		t.Errorf("SetArray: got %v of length %d", v.Kind(), v.Len())
	}
	v.SetObject(nil)
	if v.Kind() != jvalue.Object || v.Len() != 0 {
		t.Errorf("SetObject: got %v of length %d", v.Kind(), v.Len())
	}
	v.Free()
}

func TestWrongKind(t *testing.T) {
	null := jvalue.Value{}
	num := jvalue.NewNumber(1)
	str := jvalue.NewString("x")

	mtest.MustPanic(t, func() { null.Bool() })
	mtest.MustPanic(t, func() { str.Float64() })
	mtest.MustPanic(t, func() { num.Text() })
	mtest.MustPanic(t, func() { num.Len() })
	mtest.MustPanic(t, func() { str.Index(0) })
	mtest.MustPanic(t, func() { str.Lookup("x") })
	mtest.MustPanic(t, func() { num.Keys() })
	mtest.MustPanic(t, func() { num.AddElement(&str) })
	mtest.MustPanic(t, func() { num.AddMember("x", &str) })
	mtest.MustPanic(t, func() { jvalue.NewNumber(math.NaN()) })
	mtest.MustPanic(t, func() { num.SetNumber(math.Inf(1)) })

	// A failed SetNumber leaves the value unchanged.
	if got := num.Float64(); got != 1 {
		t.Errorf("After failed SetNumber: got %v, want 1", got)
	}
}

func TestFreeIdempotent(t *testing.T) {
	arena := slab.New(nil)
	p := jvalue.Parser{Arena: arena}
	v, err := p.Parse([]byte(`{"a": [{"b": {"c": [1, "two", null]}}], "d": {}}`))
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}

	v.Free()
	if v.Kind() != jvalue.Null {
		t.Errorf("Free: got %v, want null", v.Kind())
	}
	before := arena.Stats()
	v.Free()
	after := arena.Stats()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("Second Free changed the allocator (-before, +after):\n%s", diff)
	}
	if after.FreeBytes()+after.Unused != after.HeapBytes {
		t.Errorf("After Free: %d bytes free, %d unused, heap %d",
			after.FreeBytes(), after.Unused, after.HeapBytes)
	}
}

func TestAddElement(t *testing.T) {
	var arr jvalue.Value
	arr.SetArray()
	defer arr.Free()

	elts := []jvalue.Value{
		jvalue.NewBool(true),
		jvalue.NewNumber(2.5),
		jvalue.NewString("three"),
		testutil.MustParse(t, `{"k": [4]}`),
		{},
	}
	for i := range elts {
		if err := arr.AddElement(&elts[i]); err != nil {
			t.Fatalf("AddElement %d: unexpected error: %v", i, err)
		}
	}
	if got, want := arr.String(), `[true,2.5,"three",{"k":[4]},null]`; got != want {
		t.Errorf("After AddElement: got %s, want %s", got, want)
	}

	// The array holds copies; changing the originals does not affect it.
	elts[2].SetString("changed")
	elts[3].Free()
	if got := arr.Index(2).Text(); got != "three" {
		t.Errorf("Element 2: got %q, want three", got)
	}
	k, err := arr.Path(3, "k", 0)
	if err != nil {
		t.Fatalf("Path: unexpected error: %v", err)
	}
	if got := k.Float64(); got != 4 {
		t.Errorf("Element 3.k[0]: got %v, want 4", got)
	}
}

func TestAddMember(t *testing.T) {
	var obj jvalue.Value
	obj.SetObject(nil)
	defer obj.Free()

	v := testutil.MustParse(t, `{"x": [1, 2, 3]}`)
	if err := obj.AddMember("k", &v); err != nil {
		t.Fatalf("AddMember: unexpected error: %v", err)
	}

	// Mutate and free the original.
	x, _ := v.Lookup("x")
	x.SetString("gone")
	v.Free()

	got, ok := obj.Lookup("k")
	if !ok {
		t.Fatal("Lookup k: not found")
	}
	if s := got.String(); s != `{"x":[1,2,3]}` {
		t.Errorf("Member k: got %s, want {\"x\":[1,2,3]}", s)
	}

	// Adding an existing key replaces its value.
	n := jvalue.NewNumber(5)
	if err := obj.AddMember("k", &n); err != nil {
		t.Fatalf("AddMember: unexpected error: %v", err)
	}
	if got := obj.String(); got != `{"k":5}` {
		t.Errorf("After replace: got %s, want {\"k\":5}", got)
	}
	if obj.Len() != 1 {
		t.Errorf("Len: got %d, want 1", obj.Len())
	}
}

func TestAddMemberOutOfMemory(t *testing.T) {
	var obj jvalue.Value
	obj.SetObject(slab.New(&slab.Options{HeapLimit: 64}))
	s := jvalue.NewString("v")
	err := obj.AddMember("key", &s)
	if !errors.Is(err, slab.ErrOutOfMemory) {
		t.Errorf("AddMember: got error %v, want %v", err, slab.ErrOutOfMemory)
	}
	if obj.Len() != 0 {
		t.Errorf("Len: got %d, want 0", obj.Len())
	}
}

func TestCopy(t *testing.T) {
	arena := slab.New(nil)
	p := jvalue.Parser{Arena: arena}
	v, err := p.Parse([]byte(`{"a": [1, -0.5, 1e-7, "s\u0001"], "b": {"c": null}}`))
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	defer v.Free()

	cp, err := v.Copy()
	if err != nil {
		t.Fatalf("Copy: unexpected error: %v", err)
	}
	if diff := cmp.Diff(v, cp, testutil.CompareValues); diff != "" {
		t.Errorf("Copy (-want, +got):\n%s", diff)
	}

	// The copy of an object shares the allocator of the original.
	if got, _ := cp.Path("b"); got.Kind() != jvalue.Object {
		t.Errorf("Copy b: got %v, want object", got.Kind())
	}
	before := arena.Stats().FreeBytes()
	cp.Free()
	if arena.Stats().FreeBytes() <= before {
		t.Error("Free of copy returned no blocks to the original allocator")
	}
	if v.Len() != 2 {
		t.Errorf("Original: got length %d, want 2", v.Len())
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{`null`, `null`, true},
		{`true`, `true`, true},
		{`true`, `false`, false},
		{`1`, `1.0`, true},
		{`0`, `-0`, false},
		{`1`, `"1"`, false},
		{`"a"`, `"a"`, true},
		{`[]`, `[]`, true},
		{`[1, 2]`, `[1, 2]`, true},
		{`[1, 2]`, `[2, 1]`, false},
		{`[1, 2]`, `[1, 2, 3]`, false},
		{`{}`, `{}`, true},
		{`{"a": 1, "b": 2}`, `{"b": 2, "a": 1}`, true},
		{`{"a": 1, "b": 2}`, `{"a": 1, "c": 2}`, false},
		{`{"a": 1}`, `{"a": 1, "b": 2}`, false},
		{`{"a": [{}]}`, `{"a": [{}]}`, true},
		{`{"a": [{}]}`, `{"a": [[]]}`, false},
	}
	for _, tc := range tests {
		a := testutil.MustParse(t, tc.a)
		b := testutil.MustParse(t, tc.b)
		if got := a.Equal(&b); got != tc.want {
			t.Errorf("Equal(%s, %s): got %v, want %v", tc.a, tc.b, got, tc.want)
		}
		if got := b.Equal(&a); got != tc.want {
			t.Errorf("Equal(%s, %s): got %v, want %v", tc.b, tc.a, got, tc.want)
		}
		a.Free()
		b.Free()
	}
}

func TestMembers(t *testing.T) {
	v := testutil.MustParse(t, `{"c": 3, "a": 1, "b": 2}`)
	defer v.Free()

	var keys []string
	var sum float64
	for key, val := range v.Members() {
		keys = append(keys, key)
		sum += val.Float64()
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, keys); diff != "" {
		t.Errorf("Members (-want, +got):\n%s", diff)
	}
	if sum != 6 {
		t.Errorf("Sum: got %v, want 6", sum)
	}
}

func TestKindString(t *testing.T) {
	var got []string
	for _, k := range []jvalue.Kind{jvalue.Null, jvalue.Bool, jvalue.Number, jvalue.String, jvalue.Array, jvalue.Object, 99} {
		got = append(got, k.String())
	}
	want := []string{"null", "bool", "number", "string", "array", "object", "Kind(99)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Kind names (-want, +got):\n%s", diff)
	}
}
