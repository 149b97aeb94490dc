// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package slab implements a small-object allocator.
//
// An Allocator serves blocks from free lists indexed by size class. Each size
// class is a multiple of Granularity bytes, up to a configurable maximum.
// Empty free lists are refilled by carving a batch of blocks out of the
// current heap region; when the region is exhausted a larger one is added.
// Requests larger than the maximum class bypass the free lists and are
// allocated individually.
//
// Blocks are addressed by Ref values rather than pointers, so that other data
// structures can store references to blocks inside blocks. An Allocator is
// not safe for concurrent use by multiple goroutines.
package slab

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Granularity is the size in bytes of the smallest size class.
// Every size class is a multiple of Granularity.
const Granularity = 8

// headerSize is the number of bytes at the front of each block that record
// the total size of the block. The header overlaps the free-list link of a
// free block, so Granularity must be at least the size of a Ref.
const headerSize = 4

const (
	defaultMaxClass = 128
	defaultBatch    = 20
)

// ErrOutOfMemory is reported by Alloc when neither the heap nor the free
// lists of larger classes can supply a block.
var ErrOutOfMemory = errors.New("slab: out of memory")

// A Ref is a reference to a block allocated by an Allocator. The zero Ref is
// Nil, which never refers to a block.
//
// The high 32 bits of a Ref select the heap region and the low 32 bits give
// the offset of the block within it. Region 0 holds large blocks, which are
// identified by a serial number in place of an offset.
type Ref uint64

// Nil is the zero Ref.
const Nil Ref = 0

func makeRef(region, off int) Ref { return Ref(uint64(region)<<32 | uint64(uint32(off))) }

func (r Ref) region() int { return int(r >> 32) }
func (r Ref) offset() int { return int(uint32(r)) }

// Options are settings for an Allocator. A nil *Options provides defaults.
type Options struct {
	// MaxClass is the size in bytes of the largest size class, including the
	// block header. It is rounded up to a multiple of Granularity.
	// If zero, 128 is used.
	MaxClass int

	// Batch is the number of blocks carved from the heap when a free list
	// is refilled. If zero, 20 is used.
	Batch int

	// HeapLimit, if positive, is the maximum total size in bytes of the heap
	// regions. A region that would exceed the limit is refused, and the
	// allocator falls back to splitting free blocks of larger classes.
	HeapLimit int

	// Logger receives debug logs of heap growth and warnings about failed
	// allocations. If nil, logs are discarded.
	Logger log.Logger

	// Metrics, if non-nil, is updated as the allocator runs.
	Metrics *Metrics
}

func (o *Options) maxClass() int {
	if o == nil || o.MaxClass <= 0 {
		return defaultMaxClass
	}
	return max(roundUp(o.MaxClass), Granularity)
}

func (o *Options) batch() int {
	if o == nil || o.Batch <= 0 {
		return defaultBatch
	}
	return o.Batch
}

func (o *Options) heapLimit() int {
	if o == nil || o.HeapLimit < 0 {
		return 0
	}
	return o.HeapLimit
}

func (o *Options) logger() log.Logger {
	if o == nil || o.Logger == nil {
		return log.NewNopLogger()
	}
	return o.Logger
}

func (o *Options) metrics() *Metrics {
	if o == nil {
		return nil
	}
	return o.Metrics
}

// An Allocator serves fixed-size-class blocks from free lists.
type Allocator struct {
	maxClass int
	batch    int
	limit    int
	logger   log.Logger
	metrics  *Metrics

	// Heap regions. Region 0 is never used, so that no block has a zero Ref.
	regions    [][]byte
	cur        int // index of the current region
	start, end int // unused span of the current region
	total      int // total size of all regions

	free []Ref // free list heads, indexed by size class

	large      map[int][]byte
	nextLarge  int
	largeBytes int
}

// New constructs a new empty Allocator with the given options.
func New(opts *Options) *Allocator {
	mc := opts.maxClass()
	return &Allocator{
		maxClass: mc,
		batch:    opts.batch(),
		limit:    opts.heapLimit(),
		logger:   opts.logger(),
		metrics:  opts.metrics(),
		regions:  [][]byte{nil},
		free:     make([]Ref, mc/Granularity),
		large:    make(map[int][]byte),
	}
}

// roundUp rounds n up to the next multiple of Granularity.
func roundUp(n int) int { return (n + Granularity - 1) &^ (Granularity - 1) }

// classIndex returns the free list index for blocks of the given size,
// which must be a multiple of Granularity.
func classIndex(size int) int { return size/Granularity - 1 }

// SizeClass reports the total block size, including the header, that serves
// a request for n bytes. It returns 0 if the request is served outside the
// size classes.
func (a *Allocator) SizeClass(n int) int {
	if t := n + headerSize; t <= a.maxClass {
		return roundUp(t)
	}
	return 0
}

// Alloc allocates a zeroed block with room for at least size bytes.  If no
// memory is available, Alloc returns ErrOutOfMemory; the allocator does not
// retry, and the caller should treat the failure as fatal for its operation.
func (a *Allocator) Alloc(size int) (Ref, error) {
	if size < 0 {
		panic(fmt.Sprintf("slab: negative allocation size %d", size))
	}
	total := size + headerSize
	if total > a.maxClass {
		return a.allocLarge(total), nil
	}
	total = roundUp(total)
	idx := classIndex(total)
	if a.free[idx] == Nil && !a.refill(idx) {
		a.metrics.failed()
		level.Warn(a.logger).Log("msg", "allocation failed", "size", size, "heap", a.total, "limit", a.limit)
		return Nil, ErrOutOfMemory
	}
	r := a.free[idx]
	b := a.raw(r)[:total]
	a.free[idx] = Ref(binary.LittleEndian.Uint64(b))
	clear(b)
	binary.LittleEndian.PutUint32(b, uint32(total))
	return r, nil
}

func (a *Allocator) allocLarge(total int) Ref {
	buf := make([]byte, total)
	binary.LittleEndian.PutUint32(buf, uint32(total))
	a.nextLarge++
	a.large[a.nextLarge] = buf
	a.largeBytes += total
	a.metrics.largeAlloc()
	return makeRef(0, a.nextLarge)
}

// Free returns the block referenced by r to circulation. The block must have
// been allocated by a and not already freed.
func (a *Allocator) Free(r Ref) {
	b := a.raw(r)
	size := int(binary.LittleEndian.Uint32(b))
	if size > a.maxClass {
		delete(a.large, r.offset())
		a.largeBytes -= size
		return
	}
	a.push(classIndex(size), r)
}

// Bytes returns the usable contents of the block referenced by r.  The slice
// is valid until the block is freed.
func (a *Allocator) Bytes(r Ref) []byte {
	b := a.raw(r)
	size := int(binary.LittleEndian.Uint32(b))
	return b[headerSize:size:size]
}

// raw returns the contents of the region containing r, starting at r.
func (a *Allocator) raw(r Ref) []byte {
	if r == Nil {
		panic("slab: nil reference")
	}
	if rg := r.region(); rg != 0 {
		return a.regions[rg][r.offset():]
	}
	b, ok := a.large[r.offset()]
	if !ok {
		panic(fmt.Sprintf("slab: invalid reference %#x", uint64(r)))
	}
	return b
}

// push adds the block at r to the head of free list idx.
func (a *Allocator) push(idx int, r Ref) {
	binary.LittleEndian.PutUint64(a.raw(r), uint64(a.free[idx]))
	a.free[idx] = r
}

// refill populates the empty free list idx, and reports whether it was able
// to do so.
func (a *Allocator) refill(idx int) bool {
	size := (idx + 1) * Granularity
	need := size * a.batch
	num := a.batch

	switch left := a.end - a.start; {
	case left >= need:
		// Room for a full batch.

	case left >= size:
		num = left / size

	default:
		// Not enough for even one block. Donate what is left to the free list
		// of its own class, and get a new region.
		if left > 0 {
			a.push(classIndex(left), makeRef(a.cur, a.start))
			level.Debug(a.logger).Log("msg", "donated heap fragment", "size", left)
			a.start = a.end
		}
		if !a.grow(need) {
			if !a.scavenge(idx) {
				return false
			}
			num = (a.end - a.start) / size
		}
	}

	// Link the new blocks in address order.
	for i := num - 1; i >= 0; i-- {
		a.push(idx, makeRef(a.cur, a.start+i*size))
	}
	a.start += num * size
	a.metrics.refilled()
	return true
}

// grow adds a new heap region with room for at least need bytes.  It reports
// false if the region would exceed the heap limit.
func (a *Allocator) grow(need int) bool {
	n := 2*need + roundUp(a.total>>1)
	if a.limit > 0 && a.total+n > a.limit {
		level.Debug(a.logger).Log("msg", "heap limit reached", "request", n, "heap", a.total, "limit", a.limit)
		return false
	}
	a.regions = append(a.regions, make([]byte, n))
	a.cur = len(a.regions) - 1
	a.start, a.end = 0, n
	a.total += n
	a.metrics.setHeap(a.total)
	level.Debug(a.logger).Log("msg", "added heap region", "size", n, "heap", a.total, "regions", a.cur)
	return true
}

// scavenge takes a free block from the smallest non-empty class larger than
// idx and makes it the unused span of the heap. It reports false if no such
// block exists.
func (a *Allocator) scavenge(idx int) bool {
	for i := idx + 1; i < len(a.free); i++ {
		r := a.free[i]
		if r == Nil {
			continue
		}
		a.free[i] = Ref(binary.LittleEndian.Uint64(a.raw(r)))
		a.cur, a.start = r.region(), r.offset()
		a.end = a.start + (i+1)*Granularity
		a.metrics.scavenged()
		level.Debug(a.logger).Log("msg", "scavenged free block", "from", (i+1)*Granularity, "for", (idx+1)*Granularity)
		return true
	}
	return false
}

// Stats is a summary of the state of an Allocator.
type Stats struct {
	HeapBytes   int   // total size of heap regions
	Regions     int   // number of heap regions
	Unused      int   // bytes not yet carved from the current region
	LargeBlocks int   // number of live large blocks
	LargeBytes  int   // total size of live large blocks
	FreeBlocks  []int // number of free blocks, indexed by size class
}

// FreeBytes reports the total size of the blocks on the free lists.
func (s Stats) FreeBytes() int {
	var n int
	for i, c := range s.FreeBlocks {
		n += c * (i + 1) * Granularity
	}
	return n
}

// Stats returns a summary of the current state of a.
func (a *Allocator) Stats() Stats {
	st := Stats{
		HeapBytes:   a.total,
		Regions:     len(a.regions) - 1,
		Unused:      a.end - a.start,
		LargeBlocks: len(a.large),
		LargeBytes:  a.largeBytes,
		FreeBlocks:  make([]int, len(a.free)),
	}
	for i, r := range a.free {
		for r != Nil {
			st.FreeBlocks[i]++
			r = Ref(binary.LittleEndian.Uint64(a.raw(r)))
		}
	}
	return st
}
