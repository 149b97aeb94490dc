// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package scratch implements a growable buffer with stack discipline.
//
// Callers reserve space at the top of a Stack with Push, and release it with
// Pop or Truncate. Slices returned by Push and Pop remain valid only until the
// next call that may grow the buffer.
package scratch

// InitialSize is the capacity of a Stack on its first growth.
const InitialSize = 256

// A Stack is a growable buffer of T values used as a stack. The zero value is
// ready for use and holds no storage.
type Stack[T any] struct {
	buf []T
	top int
}

// Len reports the number of values on the stack.
func (s *Stack[T]) Len() int { return s.top }

// Cap reports the current capacity of the stack.
func (s *Stack[T]) Cap() int { return len(s.buf) }

// Reset discards the contents of the stack, retaining its storage.
func (s *Stack[T]) Reset() {
	clear(s.buf[:s.top])
	s.top = 0
}

// Push reserves n values at the top of the stack and returns them.
// The contents of the reserved values are unspecified.
func (s *Stack[T]) Push(n int) []T {
	if n < 0 {
		panic("scratch: negative push")
	}
	if s.top+n >= len(s.buf) {
		size := len(s.buf)
		if size == 0 {
			size = InitialSize
		}
		for s.top+n >= size {
			size += size >> 1
		}
		nb := make([]T, size)
		copy(nb, s.buf[:s.top])
		s.buf = nb
	}
	out := s.buf[s.top : s.top+n : s.top+n]
	s.top += n
	return out
}

// PushOne pushes v onto the stack.
func (s *Stack[T]) PushOne(v T) { s.Push(1)[0] = v }

// Append pushes vs onto the stack in order.
func (s *Stack[T]) Append(vs ...T) { copy(s.Push(len(vs)), vs) }

// Pop removes the top n values of the stack and returns them. The result
// aliases the buffer, and is overwritten by the next Push.
func (s *Stack[T]) Pop(n int) []T {
	s.check(n)
	s.top -= n
	return s.buf[s.top : s.top+n : s.top+n]
}

// PopCopy removes the top n values of the stack and returns a copy of them in
// a new slice of exactly length n. The vacated slots are zeroed.
func (s *Stack[T]) PopCopy(n int) []T {
	vs := s.Pop(n)
	out := make([]T, n)
	copy(out, vs)
	clear(vs)
	return out
}

// Top returns the top n values of the stack without removing them.
func (s *Stack[T]) Top(n int) []T {
	s.check(n)
	return s.buf[s.top-n : s.top : s.top]
}

// Truncate discards values from the top of the stack until it has length n.
// It is a no-op if the stack already has n or fewer values.
func (s *Stack[T]) Truncate(n int) {
	if n < 0 {
		panic("scratch: negative length")
	}
	if n < s.top {
		clear(s.buf[n:s.top])
		s.top = n
	}
}

func (s *Stack[T]) check(n int) {
	if n < 0 || n > s.top {
		panic("scratch: stack underflow")
	}
}
