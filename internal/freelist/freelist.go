// Package freelist tracks which index slots of a dense table are in use.
package freelist

import (
	"math/bits"
)

const wordBits = 64

// FreeList is a bitmap over allocated index slots. A set bit marks a slot in
// use. Allocate always hands out the lowest free slot.
//
// FreeList is not safe for concurrent use.
type FreeList struct {
	words []uint64
	// next is a hint: no slot below it is free.
	next uint64
	used int
}

// New creates an empty free list.
func New() *FreeList {
	return &FreeList{}
}

// Allocate marks the lowest free slot as used and returns it.
func (f *FreeList) Allocate() uint64 {
	w := f.next / wordBits
	for ; w < uint64(len(f.words)); w++ {
		if f.words[w] != ^uint64(0) {
			break
		}
	}
	if w == uint64(len(f.words)) {
		f.words = append(f.words, 0)
	}

	bit := uint64(bits.TrailingZeros64(^f.words[w]))
	ix := w*wordBits + bit
	f.words[w] |= 1 << bit
	f.used++
	f.next = ix + 1
	return ix
}

// Reserve marks ix as used regardless of the allocation order.
// It returns false if ix was already in use.
func (f *FreeList) Reserve(ix uint64) bool {
	w, bit := ix/wordBits, ix%wordBits
	for uint64(len(f.words)) <= w {
		f.words = append(f.words, 0)
	}
	if f.words[w]&(1<<bit) != 0 {
		return false
	}
	f.words[w] |= 1 << bit
	f.used++
	if ix == f.next {
		f.next = ix + 1
	}
	return true
}

// Vacate returns ix to the pool. It returns false if ix was not in use.
func (f *FreeList) Vacate(ix uint64) bool {
	w, bit := ix/wordBits, ix%wordBits
	if w >= uint64(len(f.words)) || f.words[w]&(1<<bit) == 0 {
		return false
	}
	f.words[w] &^= 1 << bit
	f.used--
	if ix < f.next {
		f.next = ix
	}
	return true
}

// IsAllocated reports whether ix is in use.
func (f *FreeList) IsAllocated(ix uint64) bool {
	w, bit := ix/wordBits, ix%wordBits
	return w < uint64(len(f.words)) && f.words[w]&(1<<bit) != 0
}

// Len returns the number of slots in use.
func (f *FreeList) Len() int {
	return f.used
}

// Cap returns the number of slots the bitmap currently covers.
func (f *FreeList) Cap() int {
	return len(f.words) * wordBits
}
