// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package rbtree implements a red-black tree whose nodes are allocated from a
// slab allocator.
//
// Each node is a small block holding its links, its color, and the index of
// its item. The items themselves are held by the tree in a slice, so that
// values of any Go type may be stored. A single black sentinel node stands in
// for every missing child.
//
// The tree supports insertion, search, in-order traversal and bulk removal.
// It does not support deleting individual items.
package rbtree

import (
	"encoding/binary"
	"iter"

	"github.com/creachadair/jvalue/slab"
)

type color byte

const (
	red   color = 0
	black color = 1
)

// Node record layout. Links are slab references.
const (
	offLeft   = 0
	offRight  = 8
	offParent = 16
	offItem   = 24
	offColor  = 28
	nodeSize  = 29
)

// A Tree is a red-black tree of items of type T. The order of items is
// determined by the comparison functions passed to Insert and Find, which
// must be consistent with each other.
//
// A Tree is not safe for concurrent use by multiple goroutines.
type Tree[T any] struct {
	arena *slab.Allocator
	root  slab.Ref // slab.Nil when the tree has never been populated
	nilp  slab.Ref // the sentinel, allocated on first insert
	items []T
}

// New constructs an empty tree whose nodes are allocated from arena.
// If arena == nil, the tree uses a private allocator with default options.
func New[T any](arena *slab.Allocator) *Tree[T] {
	if arena == nil {
		arena = slab.New(nil)
	}
	return &Tree[T]{arena: arena}
}

// Arena returns the allocator from which t allocates its nodes.
func (t *Tree[T]) Arena() *slab.Allocator { return t.arena }

// Len reports the number of items in t.
func (t *Tree[T]) Len() int { return len(t.items) }

// Insert adds item to the tree. The compare function reports the order of
// its first argument relative to its second, as for cmp.Compare. An item
// that compares equal to an existing item is placed after it.
//
// Insert reports an error only if a node could not be allocated; in that
// case the tree is unchanged.
func (t *Tree[T]) Insert(item T, compare func(a, b T) int) error {
	if t.nilp == slab.Nil {
		s, err := t.arena.Alloc(nodeSize)
		if err != nil {
			return err
		}
		t.nilp = s
		t.setColor(s, black)
		t.root = s
	}
	z, err := t.arena.Alloc(nodeSize)
	if err != nil {
		return err
	}
	idx := len(t.items)
	t.items = append(t.items, item)

	y, x := slab.Nil, t.root
	for x != t.nilp {
		y = x
		if compare(item, t.item(x)) < 0 {
			x = t.left(x)
		} else {
			x = t.right(x)
		}
	}

	t.setParent(z, y)
	t.setItem(z, idx)
	t.setLeft(z, t.nilp)
	t.setRight(z, t.nilp)
	t.setColor(z, red)
	if y == slab.Nil {
		t.root = z
	} else if compare(item, t.item(y)) < 0 {
		t.setLeft(y, z)
	} else {
		t.setRight(y, z)
	}
	t.insertFixup(z)
	return nil
}

func (t *Tree[T]) insertFixup(z slab.Ref) {
	for t.colorOf(t.parent(z)) == red {
		p := t.parent(z)
		g := t.parent(p)
		if p == t.left(g) {
			u := t.right(g)
			if t.colorOf(u) == red {
				t.setColor(p, black)
				t.setColor(u, black)
				t.setColor(g, red)
				z = g
				continue
			}
			if z == t.right(p) {
				z = p
				t.rotateLeft(z)
				p = t.parent(z)
			}
			t.setColor(p, black)
			t.setColor(g, red)
			t.rotateRight(g)
		} else {
			u := t.left(g)
			if t.colorOf(u) == red {
				t.setColor(p, black)
				t.setColor(u, black)
				t.setColor(g, red)
				z = g
				continue
			}
			if z == t.left(p) {
				z = p
				t.rotateRight(z)
				p = t.parent(z)
			}
			t.setColor(p, black)
			t.setColor(g, red)
			t.rotateLeft(g)
		}
	}
	t.setColor(t.root, black)
}

func (t *Tree[T]) rotateLeft(x slab.Ref) {
	y := t.right(x)
	t.setRight(x, t.left(y))
	if yl := t.left(y); yl != t.nilp {
		t.setParent(yl, x)
	}
	t.replaceChild(x, y)
	t.setLeft(y, x)
	t.setParent(x, y)
}

func (t *Tree[T]) rotateRight(x slab.Ref) {
	y := t.left(x)
	t.setLeft(x, t.right(y))
	if yr := t.right(y); yr != t.nilp {
		t.setParent(yr, x)
	}
	t.replaceChild(x, y)
	t.setRight(y, x)
	t.setParent(x, y)
}

// replaceChild puts y in the place of x under the parent of x.
func (t *Tree[T]) replaceChild(x, y slab.Ref) {
	p := t.parent(x)
	t.setParent(y, p)
	switch {
	case p == slab.Nil:
		t.root = y
	case x == t.left(p):
		t.setLeft(p, y)
	default:
		t.setRight(p, y)
	}
}

// Find returns an item for which compare reports 0, and true; or a zero
// value and false if there is no such item. The compare function reports the
// order of the wanted item relative to its argument: negative if the wanted
// item precedes it, positive if the wanted item follows it.
func (t *Tree[T]) Find(compare func(T) int) (T, bool) {
	if x, ok := t.find(compare); ok {
		return t.item(x), true
	}
	var zero T
	return zero, false
}

// FindRef is as Find, but returns a pointer to the matching item in the tree.
// The pointer is valid until the next call to Insert or Clear.
func (t *Tree[T]) FindRef(compare func(T) int) (*T, bool) {
	if x, ok := t.find(compare); ok {
		return &t.items[t.itemIndex(x)], true
	}
	return nil, false
}

func (t *Tree[T]) find(compare func(T) int) (slab.Ref, bool) {
	if t.nilp == slab.Nil {
		return slab.Nil, false
	}
	for x := t.root; x != t.nilp; {
		c := compare(t.item(x))
		if c == 0 {
			return x, true
		} else if c < 0 {
			x = t.left(x)
		} else {
			x = t.right(x)
		}
	}
	return slab.Nil, false
}

// InOrder calls visit for each item of t in order. If visit returns false,
// the traversal stops and InOrder returns false; otherwise it returns true.
func (t *Tree[T]) InOrder(visit func(T) bool) bool {
	if t.nilp == slab.Nil {
		return true
	}
	return t.walk(t.root, visit)
}

func (t *Tree[T]) walk(x slab.Ref, visit func(T) bool) bool {
	if x == t.nilp {
		return true
	}
	return t.walk(t.left(x), visit) && visit(t.item(x)) && t.walk(t.right(x), visit)
}

// All returns an iterator over the items of t in order.
func (t *Tree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) { t.InOrder(yield) }
}

// Clear removes all the items from t and frees its nodes. If destroy != nil,
// it is called with each item, in post-order, before its node is freed.
// After Clear the tree is empty and may be reused.
func (t *Tree[T]) Clear(destroy func(T)) {
	if t.nilp == slab.Nil {
		return
	}
	t.clear(t.root, destroy)
	t.arena.Free(t.nilp)
	t.root, t.nilp = slab.Nil, slab.Nil
	clear(t.items)
	t.items = t.items[:0]
}

func (t *Tree[T]) clear(x slab.Ref, destroy func(T)) {
	if x == t.nilp {
		return
	}
	t.clear(t.left(x), destroy)
	t.clear(t.right(x), destroy)
	if destroy != nil {
		destroy(t.item(x))
	}
	t.arena.Free(x)
}

// Node field accessors.

func (t *Tree[T]) getRef(x slab.Ref, off int) slab.Ref {
	return slab.Ref(binary.LittleEndian.Uint64(t.arena.Bytes(x)[off:]))
}

func (t *Tree[T]) putRef(x slab.Ref, off int, v slab.Ref) {
	binary.LittleEndian.PutUint64(t.arena.Bytes(x)[off:], uint64(v))
}

func (t *Tree[T]) left(x slab.Ref) slab.Ref   { return t.getRef(x, offLeft) }
func (t *Tree[T]) right(x slab.Ref) slab.Ref  { return t.getRef(x, offRight) }
func (t *Tree[T]) parent(x slab.Ref) slab.Ref { return t.getRef(x, offParent) }

func (t *Tree[T]) setLeft(x, v slab.Ref)   { t.putRef(x, offLeft, v) }
func (t *Tree[T]) setRight(x, v slab.Ref)  { t.putRef(x, offRight, v) }
func (t *Tree[T]) setParent(x, v slab.Ref) { t.putRef(x, offParent, v) }

func (t *Tree[T]) itemIndex(x slab.Ref) int {
	return int(binary.LittleEndian.Uint32(t.arena.Bytes(x)[offItem:]))
}

func (t *Tree[T]) setItem(x slab.Ref, idx int) {
	binary.LittleEndian.PutUint32(t.arena.Bytes(x)[offItem:], uint32(idx))
}

func (t *Tree[T]) item(x slab.Ref) T { return t.items[t.itemIndex(x)] }

// colorOf reports the color of x. The parent of the root is black.
func (t *Tree[T]) colorOf(x slab.Ref) color {
	if x == slab.Nil {
		return black
	}
	return color(t.arena.Bytes(x)[offColor])
}

func (t *Tree[T]) setColor(x slab.Ref, c color) { t.arena.Bytes(x)[offColor] = byte(c) }
