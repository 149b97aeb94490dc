// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jvalue

import (
	"fmt"

	"github.com/pkg/errors"
	"go4.org/mem"
)

// Path traverses a sequential path into the structure of v, and returns the
// value reached. Path elements are strings, integers, functions or nil.
//
// If a path element is a string, the corresponding value must be an object,
// and the string selects the member with that key.
//
// If a path element is an integer, the corresponding value must be an array
// or object, and the integer selects the element at that offset, or the
// member at that position in key order. Negative indices count backward from
// the end (-1 is last, -2 second last). An error is reported if the index is
// out of bounds.
//
// If a path element is a function, the function is called with the current
// value and its result becomes the next value in the sequence. The function
// must have the signature
//
//	func(*Value) (*Value, error)
//
// If the function reports an error, traversal stops and the error is
// returned. A nil path element is ignored.
func (v *Value) Path(path ...any) (*Value, error) {
	cur := v
	for i, elt := range path {
		switch t := elt.(type) {
		case string:
			if cur.kind != Object {
				return nil, pathErrorf(i, "cannot traverse %v with %q", cur.kind, t)
			}
			next, ok := cur.o.Lookup(t)
			if !ok {
				return nil, pathErrorf(i, "key %q not found", t)
			}
			cur = next

		case int:
			switch cur.kind {
			case Array:
				j, ok := fixArrayBound(len(cur.a), t)
				if !ok {
					return nil, pathErrorf(i, "array index %d out of bounds (n=%d)", t, len(cur.a))
				}
				cur = &cur.a[j]
			case Object:
				j, ok := fixArrayBound(cur.o.Len(), t)
				if !ok {
					return nil, pathErrorf(i, "object index %d out of bounds (n=%d)", t, cur.o.Len())
				}
				cur = nthMember(cur, j)
			default:
				return nil, pathErrorf(i, "cannot traverse %v with %d", cur.kind, t)
			}

		case func(*Value) (*Value, error):
			next, err := t(cur)
			if err != nil {
				return nil, errors.Wrapf(err, "path step %d", i)
			}
			cur = next

		case nil:
			// Do nothing.

		default:
			return nil, pathErrorf(i, "invalid path element %T", elt)
		}
	}
	return cur, nil
}

func pathErrorf(step int, msg string, args ...any) error {
	return errors.Errorf("path step %d: %s", step, fmt.Sprintf(msg, args...))
}

// nthMember returns the value of the member of object v at offset n in key
// order.
func nthMember(v *Value, n int) *Value {
	var out *Value
	v.o.Each(func(_ mem.RO, val *Value) bool {
		if n == 0 {
			out = val
			return false
		}
		n--
		return true
	})
	return out
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
