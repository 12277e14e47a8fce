// Package iocache is for persisting item reference data and caching item lookups.
package iocache

import (
	"sync"

	"github.com/lootlens/lootlens/internal/contract"
)

// StoreManager holds the item store and the lookup cache in front of it.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	items        contract.ItemStore
	cache        contract.LookupCache
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// NewStoreManager wires an already opened store and cache.
func NewStoreManager(items contract.ItemStore, cache contract.LookupCache) *StoreManager {
	return &StoreManager{items: items, cache: cache}
}

// GetItemStore returns the item store.
func (mgr *StoreManager) GetItemStore() contract.ItemStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.items
}

// GetLookupCache returns the lookup cache.
func (mgr *StoreManager) GetLookupCache() contract.LookupCache {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.cache
}
