// Package storage implements the interning tables behind the node storage.
//
// Every table is a bidirectional map between views and dense ids: a growable
// slot array indexed by id, and a hash index from view hash to the ids whose
// views carry that hash. Equality is resolved against the slot array, so each
// view is stored exactly once. Freed ids are recycled lowest-first.
package storage

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// View is the constraint on values stored in a table.
type View[V any] interface {
	// Hash returns a hash of the view's identity-relevant content.
	Hash() uint64
	// Equal reports whether two views denote the same term.
	Equal(other V) bool
}

// Backend is an interning table. Id 0 is never handed out.
type Backend[V View[V]] interface {
	// FindOrMakeID returns the id of v, allocating one if v is new.
	FindOrMakeID(v V) uint64

	// Intern is FindOrMakeID that also reports whether v was inserted.
	Intern(v V) (id uint64, created bool)

	// FindID returns the id of v without inserting it.
	FindID(v V) (uint64, bool)

	// FindView returns the view stored under id.
	// The second result is false if id is not live.
	FindView(id uint64) (V, bool)

	// Erase removes the view stored under id and recycles the id.
	Erase(id uint64) bool

	// Reserve stores v under a caller-chosen id.
	// It returns false if id is taken or v is already stored.
	Reserve(id uint64, v V) bool

	// Len returns the number of live views.
	Len() int
}

// New creates a backend of the requested flavor.
func New[V View[V]](synchronized bool) Backend[V] {
	if synchronized {
		return NewSyncTable[V]()
	}
	return NewTable[V]()
}

// HashString hashes a single string key.
func HashString(s string) uint64 {
	return xxh3.HashString(s)
}

// HashFields hashes a sequence of fields. Fields are length-prefixed so
// ("ab", "c") and ("a", "bc") hash differently.
func HashFields(seed uint64, fields ...string) uint64 {
	h := xxh3.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	_, _ = h.Write(buf[:])
	for _, f := range fields {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(f)))
		_, _ = h.Write(buf[:])
		_, _ = h.WriteString(f)
	}
	return h.Sum64()
}
