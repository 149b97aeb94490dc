// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package rbtree

import (
	"errors"
	"fmt"

	"github.com/creachadair/jvalue/slab"
)

// Check verifies the structural invariants of t, and that its items are
// ordered by compare.
func (t *Tree[T]) Check(compare func(a, b T) int) error {
	if t.nilp == slab.Nil {
		if len(t.items) != 0 {
			return fmt.Errorf("no sentinel but %d items", len(t.items))
		}
		return nil
	}
	if t.colorOf(t.nilp) != black {
		return errors.New("sentinel is not black")
	}
	if t.root == t.nilp {
		if len(t.items) != 0 {
			return fmt.Errorf("empty tree with %d items", len(t.items))
		}
		return nil
	}
	if t.colorOf(t.root) != black {
		return errors.New("root is not black")
	}
	if p := t.parent(t.root); p != slab.Nil {
		return fmt.Errorf("root has parent %#x", uint64(p))
	}

	var count int
	var check func(x slab.Ref) (int, error)
	check = func(x slab.Ref) (int, error) {
		if x == t.nilp {
			return 1, nil
		}
		count++
		l, r := t.left(x), t.right(x)
		for _, c := range []slab.Ref{l, r} {
			if c == t.nilp {
				continue
			}
			if t.parent(c) != x {
				return 0, fmt.Errorf("node %#x: child %#x has wrong parent", uint64(x), uint64(c))
			}
			if t.colorOf(x) == red && t.colorOf(c) == red {
				return 0, fmt.Errorf("node %#x: red node has red child", uint64(x))
			}
		}
		if l != t.nilp && compare(t.item(l), t.item(x)) > 0 {
			return 0, fmt.Errorf("node %#x: left child out of order", uint64(x))
		}
		if r != t.nilp && compare(t.item(r), t.item(x)) < 0 {
			return 0, fmt.Errorf("node %#x: right child out of order", uint64(x))
		}
		lh, err := check(l)
		if err != nil {
			return 0, err
		}
		rh, err := check(r)
		if err != nil {
			return 0, err
		}
		if lh != rh {
			return 0, fmt.Errorf("node %#x: black heights differ (%d, %d)", uint64(x), lh, rh)
		}
		if t.colorOf(x) == black {
			lh++
		}
		return lh, nil
	}
	if _, err := check(t.root); err != nil {
		return err
	}
	if count != len(t.items) {
		return fmt.Errorf("found %d nodes, want %d", count, len(t.items))
	}
	return nil
}
