// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jvalue

import (
	"fmt"
	"iter"
	"math"

	"github.com/creachadair/jvalue/omap"
	"github.com/creachadair/jvalue/slab"
	"github.com/pkg/errors"
	"go4.org/mem"
)

// Kind is the type of a JSON value.
type Kind byte

// The kinds of JSON values.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

var kindName = [...]string{
	Null:   "null",
	Bool:   "bool",
	Number: "number",
	String: "string",
	Array:  "array",
	Object: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindName) {
		return kindName[k]
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// A Value is a JSON value. The zero Value is Null.
//
// A Value owns its contents, including the elements of an array and the
// members of an object. Assigning a Value to another variable transfers
// ownership; use Copy to obtain an independent value. Call Free to release
// the contents of a Value that is no longer needed.
//
// Methods that read the contents of a Value panic if the Value is not of the
// expected kind.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	a    []Value
	o    *omap.Map[Value]
}

// NewBool returns a Bool value.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewNumber returns a Number value. It panics if f is NaN or infinite.
func NewNumber(f float64) Value {
	var v Value
	v.SetNumber(f)
	return v
}

// NewString returns a String value.
func NewString(s string) Value { return Value{kind: String, s: s} }

// Kind reports the kind of v.
func (v *Value) Kind() Kind { return v.kind }

func (v *Value) want(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("jvalue: %v value used as %v", v.kind, k))
	}
}

// Free releases the contents of v, recursively, and sets v to Null.
// Calling Free on a Null value has no effect.
func (v *Value) Free() {
	switch v.kind {
	case Array:
		for i := range v.a {
			v.a[i].Free()
		}
	case Object:
		v.o.Clear()
	}
	*v = Value{}
}

func releaseValue(v *Value) { v.Free() }

// SetNull releases the contents of v and sets it to Null.
func (v *Value) SetNull() { v.Free() }

// SetBool releases the contents of v and sets it to the Bool b.
func (v *Value) SetBool(b bool) {
	v.Free()
	v.kind, v.b = Bool, b
}

// SetNumber releases the contents of v and sets it to the Number f.
// It panics if f is NaN or infinite, since those have no JSON encoding.
func (v *Value) SetNumber(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("jvalue: invalid number %v", f))
	}
	v.Free()
	v.kind, v.n = Number, f
}

// SetString releases the contents of v and sets it to the String s.
func (v *Value) SetString(s string) {
	v.Free()
	v.kind, v.s = String, s
}

// SetArray releases the contents of v and sets it to an empty Array.
func (v *Value) SetArray() {
	v.Free()
	v.kind = Array
}

// SetObject releases the contents of v and sets it to an empty Object whose
// keys are allocated from arena. If arena == nil, the object has a private
// allocator.
func (v *Value) SetObject(arena *slab.Allocator) {
	v.Free()
	v.kind, v.o = Object, omap.New(arena, releaseValue)
}

// Bool returns the value of a Bool.
func (v *Value) Bool() bool { v.want(Bool); return v.b }

// Float64 returns the value of a Number.
func (v *Value) Float64() float64 { v.want(Number); return v.n }

// Text returns the contents of a String.
func (v *Value) Text() string { v.want(String); return v.s }

// Len reports the length in bytes of a String, the number of elements of an
// Array, or the number of members of an Object.
func (v *Value) Len() int {
	switch v.kind {
	case String:
		return len(v.s)
	case Array:
		return len(v.a)
	case Object:
		return v.o.Len()
	}
	panic(fmt.Sprintf("jvalue: %v value has no length", v.kind))
}

// Index returns a pointer to the element of an Array at offset i.
// The pointer is valid until the next call to AddElement on v.
func (v *Value) Index(i int) *Value { v.want(Array); return &v.a[i] }

// Elements returns an iterator over the elements of an Array.
func (v *Value) Elements() iter.Seq2[int, *Value] {
	v.want(Array)
	return func(yield func(int, *Value) bool) {
		for i := range v.a {
			if !yield(i, &v.a[i]) {
				return
			}
		}
	}
}

// Lookup reports whether an Object has a member with the given key, and if
// so returns a pointer to its value.
func (v *Value) Lookup(key string) (*Value, bool) { v.want(Object); return v.o.Lookup(key) }

// Keys returns the keys of an Object in order.
func (v *Value) Keys() []string { v.want(Object); return v.o.Keys() }

// Each calls visit for each member of an Object in key order, until visit
// returns false. The key passed to visit is valid only during the call.
// Each reports whether every member was visited.
func (v *Value) Each(visit func(key mem.RO, val *Value) bool) bool {
	v.want(Object)
	return v.o.Each(visit)
}

// Members returns an iterator over the members of an Object in key order.
func (v *Value) Members() iter.Seq2[string, *Value] { v.want(Object); return v.o.All() }

// AddElement appends a copy of e to the end of an Array. The caller retains
// ownership of e.
func (v *Value) AddElement(e *Value) error {
	v.want(Array)
	cp, err := e.Copy()
	if err != nil {
		return errors.Wrap(err, "add element")
	}
	v.a = append(v.a, cp)
	return nil
}

// AddMember adds a copy of m to an Object under the given key. If the key is
// already present, its previous value is freed and replaced. The caller
// retains ownership of m.
func (v *Value) AddMember(key string, m *Value) error {
	v.want(Object)
	cp, err := m.copyWith(v.o.Arena())
	if err != nil {
		return errors.Wrapf(err, "add member %q", key)
	}
	if err := v.o.Insert(key, cp); err != nil {
		cp.Free()
		return errors.Wrapf(err, "add member %q", key)
	}
	return nil
}

// Copy returns a deep copy of v that shares no storage with v, except that
// a copy of an Object allocates from the same allocator as v. The copy is
// made by generating the JSON encoding of v and parsing it.
func (v *Value) Copy() (Value, error) {
	var arena *slab.Allocator
	if v.kind == Object {
		arena = v.o.Arena()
	}
	return v.copyWith(arena)
}

func (v *Value) copyWith(arena *slab.Allocator) (Value, error) {
	switch v.kind {
	case Null, Bool, Number, String:
		return *v, nil
	}
	p := Parser{Arena: arena}
	cp, err := p.Parse(Generate(v))
	if err != nil {
		return Value{}, errors.Wrap(err, "copy value")
	}
	return cp, nil
}

// Equal reports whether v and w are structurally equal. Numbers are equal if
// their binary representations are equal, so 0 and -0 are not equal.
func (v *Value) Equal(w *Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == w.b
	case Number:
		return math.Float64bits(v.n) == math.Float64bits(w.n)
	case String:
		return v.s == w.s
	case Array:
		if len(v.a) != len(w.a) {
			return false
		}
		for i := range v.a {
			if !v.a[i].Equal(&w.a[i]) {
				return false
			}
		}
		return true
	case Object:
		if v.o.Len() != w.o.Len() {
			return false
		}
		return v.o.Each(func(key mem.RO, val *Value) bool {
			wv, ok := w.o.Lookup(key.StringCopy())
			return ok && val.Equal(wv)
		})
	}
	panic(fmt.Sprintf("jvalue: invalid kind %v", v.kind))
}
