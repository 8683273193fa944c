package storage

import (
	"github.com/aleksaelezovic/rdfcore/internal/freelist"
)

// Table is the unsynchronized backend flavor.
type Table[V View[V]] struct {
	slots []V
	index map[uint64][]uint64
	free  *freelist.FreeList
}

// NewTable creates an empty table with id 0 reserved for the null term.
func NewTable[V View[V]]() *Table[V] {
	t := &Table[V]{
		slots: make([]V, 1, 64),
		index: make(map[uint64][]uint64),
		free:  freelist.New(),
	}
	t.free.Reserve(0)
	return t
}

// FindOrMakeID returns the id of v, allocating one if v is new.
func (t *Table[V]) FindOrMakeID(v V) uint64 {
	id, _ := t.Intern(v)
	return id
}

// Intern returns the id of v and whether this call inserted it.
func (t *Table[V]) Intern(v V) (uint64, bool) {
	h := v.Hash()
	if id, ok := t.lookup(h, v); ok {
		return id, false
	}

	id := t.free.Allocate()
	t.store(id, h, v)
	return id, true
}

// FindID returns the id of v without inserting it.
func (t *Table[V]) FindID(v V) (uint64, bool) {
	return t.lookup(v.Hash(), v)
}

// FindView returns the view stored under id.
func (t *Table[V]) FindView(id uint64) (V, bool) {
	if id == 0 || !t.free.IsAllocated(id) {
		var zero V
		return zero, false
	}
	return t.slots[id], true
}

// Erase removes the view stored under id and recycles the id.
func (t *Table[V]) Erase(id uint64) bool {
	if id == 0 || !t.free.IsAllocated(id) {
		return false
	}

	v := t.slots[id]
	h := v.Hash()
	bucket := t.index[h]
	for i, candidate := range bucket {
		if candidate == id {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(t.index, h)
	} else {
		t.index[h] = bucket
	}

	var zero V
	t.slots[id] = zero
	t.free.Vacate(id)
	return true
}

// Reserve stores v under a caller-chosen id.
func (t *Table[V]) Reserve(id uint64, v V) bool {
	if id == 0 {
		return false
	}
	h := v.Hash()
	if _, ok := t.lookup(h, v); ok {
		return false
	}
	if !t.free.Reserve(id) {
		return false
	}
	t.store(id, h, v)
	return true
}

// Len returns the number of live views.
func (t *Table[V]) Len() int {
	return t.free.Len() - 1
}

func (t *Table[V]) lookup(h uint64, v V) (uint64, bool) {
	for _, id := range t.index[h] {
		if t.slots[id].Equal(v) {
			return id, true
		}
	}
	return 0, false
}

func (t *Table[V]) store(id, h uint64, v V) {
	for uint64(len(t.slots)) <= id {
		var zero V
		t.slots = append(t.slots, zero)
	}
	t.slots[id] = v
	t.index[h] = append(t.index[h], id)
}
