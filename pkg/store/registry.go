package store

import (
	"sync"
	"sync/atomic"

	"github.com/aleksaelezovic/rdfcore/pkg/identifier"
)

var (
	nextID    atomic.Uint32
	instances sync.Map // identifier.StorageID -> *NodeStorage

	defaultMu      sync.Mutex
	defaultStorage *NodeStorage
)

func register(s *NodeStorage) identifier.StorageID {
	id := identifier.StorageID(nextID.Add(1))
	instances.Store(id, s)
	return id
}

func unregister(id identifier.StorageID) {
	instances.Delete(id)
}

// Lookup returns the open storage with the given id.
func Lookup(id identifier.StorageID) (*NodeStorage, bool) {
	v, ok := instances.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*NodeStorage), true
}

// Owner returns the open storage that issued h.
func Owner(h identifier.NodeBackendHandle) (*NodeStorage, bool) {
	return Lookup(h.Storage())
}

// Default returns the process-wide synchronized storage, creating it on
// first use or after it was closed.
func Default() *NodeStorage {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultStorage == nil || defaultStorage.closed.Load() {
		defaultStorage = New(WithSynchronized(true))
	}
	return defaultStorage
}
