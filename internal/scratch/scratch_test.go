// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package scratch_test

import (
	"testing"

	"github.com/creachadair/jvalue/internal/scratch"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

func TestGrowth(t *testing.T) {
	var s scratch.Stack[byte]
	if s.Cap() != 0 {
		t.Errorf("Zero stack: got cap %d, want 0", s.Cap())
	}

	s.Push(10)
	if got, want := s.Cap(), scratch.InitialSize; got != want {
		t.Errorf("After first push: got cap %d, want %d", got, want)
	}

	// Filling to exactly the capacity grows by half.
	s.Push(246)
	if got, want := s.Cap(), 384; got != want {
		t.Errorf("After filling: got cap %d, want %d", got, want)
	}

	// A large push grows repeatedly until it fits.
	s.Push(1000)
	if got, want := s.Cap(), 1296; got != want {
		t.Errorf("After large push: got cap %d, want %d", got, want)
	}
	if got, want := s.Len(), 1256; got != want {
		t.Errorf("Len: got %d, want %d", got, want)
	}
}

func TestPushPop(t *testing.T) {
	var s scratch.Stack[byte]
	s.Append([]byte("hello")...)
	mark := s.Len()
	s.PushOne(',')
	s.Append([]byte(" world")...)

	if got := string(s.Top(s.Len())); got != "hello, world" {
		t.Errorf("Top: got %q, want %q", got, "hello, world")
	}
	if got := string(s.Pop(s.Len() - mark)); got != ", world" {
		t.Errorf("Pop: got %q, want %q", got, ", world")
	}
	if got := s.Len(); got != mark {
		t.Errorf("Len after pop: got %d, want %d", got, mark)
	}

	// Nested use: an inner frame truncates back to its own mark.
	inner := s.Len()
	s.Append([]byte("xyz")...)
	s.Truncate(inner)
	s.Truncate(inner + 10) // no-op
	if got := string(s.Pop(s.Len())); got != "hello" {
		t.Errorf("Pop all: got %q, want %q", got, "hello")
	}

	mtest.MustPanic(t, func() { s.Pop(1) })
	mtest.MustPanic(t, func() { s.Push(-1) })
	mtest.MustPanic(t, func() { s.Truncate(-1) })
}

func TestPopCopy(t *testing.T) {
	var s scratch.Stack[*int]
	a, b, c := new(int), new(int), new(int)
	s.Append(a, b, c)

	got := s.PopCopy(2)
	if diff := cmp.Diff([]*int{b, c}, got); diff != "" {
		t.Errorf("PopCopy (-want, +got):\n%s", diff)
	}
	if len(got) != cap(got) {
		t.Errorf("PopCopy: got cap %d, want %d", cap(got), len(got))
	}

	// The vacated slots do not retain their old contents.
	if v := s.Push(2); v[0] != nil || v[1] != nil {
		t.Errorf("Push after PopCopy: got %v, want nil slots", v)
	}

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Reset: got len %d, want 0", s.Len())
	}
}
