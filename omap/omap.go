// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package omap implements a string-keyed map whose entries are kept in
// lexicographic order of their keys.
//
// The entries of a Map are held in a red-black tree, and the bytes of each
// key are stored in a block of the tree's slab allocator. Keys are compared
// byte-wise, without regard to Unicode.
package omap

import (
	"iter"

	"github.com/creachadair/jvalue/rbtree"
	"github.com/creachadair/jvalue/slab"
	"go4.org/mem"
)

type entry[V any] struct {
	key  slab.Ref
	klen int
	val  V
}

// A Map is an ordered map from string keys to values of type V.
// A Map is not safe for concurrent use by multiple goroutines.
type Map[V any] struct {
	tree    *rbtree.Tree[*entry[V]]
	release func(*V)
}

// New constructs an empty map that allocates from arena. If arena == nil,
// the map uses a private allocator. If release != nil, it is called with
// each value discarded by the map, either because it was replaced by Insert
// or because the map was cleared.
func New[V any](arena *slab.Allocator, release func(*V)) *Map[V] {
	return &Map[V]{tree: rbtree.New[*entry[V]](arena), release: release}
}

// Arena returns the allocator from which m allocates.
func (m *Map[V]) Arena() *slab.Allocator { return m.tree.Arena() }

// Len reports the number of distinct keys in m.
func (m *Map[V]) Len() int { return m.tree.Len() }

func (m *Map[V]) keyOf(e *entry[V]) mem.RO {
	return mem.B(m.tree.Arena().Bytes(e.key)[:e.klen])
}

func compareRO(a, b mem.RO) int {
	if a.Less(b) {
		return -1
	} else if b.Less(a) {
		return 1
	}
	return 0
}

func (m *Map[V]) compare(a, b *entry[V]) int { return compareRO(m.keyOf(a), m.keyOf(b)) }

func (m *Map[V]) find(key mem.RO) (*entry[V], bool) {
	p, ok := m.tree.FindRef(func(e *entry[V]) int { return compareRO(key, m.keyOf(e)) })
	if !ok {
		return nil, false
	}
	return *p, true
}

// Insert adds key to m with the given value. If key is already present, its
// value is released and replaced by val, and the size of m does not change.
//
// Insert reports an error only if memory for the key could not be
// allocated. In that case m is unchanged and the caller retains val.
func (m *Map[V]) Insert(key string, val V) error {
	if e, ok := m.find(mem.S(key)); ok {
		if m.release != nil {
			m.release(&e.val)
		}
		e.val = val
		return nil
	}

	arena := m.tree.Arena()
	r, err := arena.Alloc(len(key))
	if err != nil {
		return err
	}
	copy(arena.Bytes(r), key)
	e := &entry[V]{key: r, klen: len(key), val: val}
	if err := m.tree.Insert(e, m.compare); err != nil {
		arena.Free(r)
		return err
	}
	return nil
}

// Lookup reports whether key is present in m, and if so returns a pointer to
// its value. The pointer remains valid until m is cleared.
func (m *Map[V]) Lookup(key string) (*V, bool) {
	e, ok := m.find(mem.S(key))
	if !ok {
		return nil, false
	}
	return &e.val, true
}

// Each calls visit for each entry of m in key order. The key passed to visit
// is a view of storage owned by m, valid only during the call. If visit
// returns false, Each stops and returns false; otherwise it returns true.
func (m *Map[V]) Each(visit func(key mem.RO, val *V) bool) bool {
	return m.tree.InOrder(func(e *entry[V]) bool { return visit(m.keyOf(e), &e.val) })
}

// All returns an iterator over the keys and values of m in key order.
func (m *Map[V]) All() iter.Seq2[string, *V] {
	return func(yield func(string, *V) bool) {
		m.Each(func(key mem.RO, val *V) bool { return yield(key.StringCopy(), val) })
	}
}

// Keys returns the keys of m in order.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.Each(func(key mem.RO, _ *V) bool {
		keys = append(keys, key.StringCopy())
		return true
	})
	return keys
}

// Clear removes all the entries from m, releasing their values and freeing
// the storage for their keys. After Clear, m is empty and may be reused.
func (m *Map[V]) Clear() {
	arena := m.tree.Arena()
	m.tree.Clear(func(e *entry[V]) {
		if m.release != nil {
			m.release(&e.val)
		}
		arena.Free(e.key)
	})
}
