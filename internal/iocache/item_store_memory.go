package iocache

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
)

// MemoryItemStore keeps item data for the lifetime of the process only.
// It backs the none store backend and tests.
type MemoryItemStore struct {
	mu       sync.RWMutex
	items    map[int64]schema.ItemReference
	refresh  schema.RefreshState
	settings map[string]schema.Setting
}

var _ contract.ItemStore = &MemoryItemStore{} // Compile-time check

// NewMemoryItemStore creates an empty in-memory store.
func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{
		items:    make(map[int64]schema.ItemReference),
		refresh:  schema.RefreshState{Status: schema.RefreshDefault},
		settings: make(map[string]schema.Setting),
	}
}

// LookupItem implements the ItemLookup interface.
func (s *MemoryItemStore) LookupItem(_ context.Context, id int64) (schema.ItemReference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return schema.ItemReference{}, fmt.Errorf("item %d: %w", id, contract.ErrItemNotFound)
	}
	return item, nil
}

// UpsertItems implements the ItemStore interface.
func (s *MemoryItemStore) UpsertItems(_ context.Context, items []schema.ItemReference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.items[it.ID] = it
	}
	return nil
}

// GetRefreshState implements the ItemStore interface.
func (s *MemoryItemStore) GetRefreshState(context.Context) (schema.RefreshState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh, nil
}

// SetRefreshState implements the ItemStore interface.
func (s *MemoryItemStore) SetRefreshState(_ context.Context, state schema.RefreshState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = state
	return nil
}

// GetSetting implements the ItemStore interface.
func (s *MemoryItemStore) GetSetting(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	setting, ok := s.settings[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, contract.ErrSettingNotFound)
	}
	return setting.Value, nil
}

// SetSetting implements the ItemStore interface.
func (s *MemoryItemStore) SetSetting(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = schema.Setting{Key: key, Value: value, Updated: time.Now()}
	return nil
}

// ListSettings implements the ItemStore interface.
func (s *MemoryItemStore) ListSettings(context.Context) ([]schema.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings := make([]schema.Setting, 0, len(s.settings))
	for _, setting := range s.settings {
		settings = append(settings, setting)
	}
	slices.SortFunc(settings, func(a, b schema.Setting) int { return strings.Compare(a.Key, b.Key) })
	return settings, nil
}

// Ping implements the ItemStore interface.
func (s *MemoryItemStore) Ping(context.Context) error {
	return nil
}

// GetStatus implements the ItemStore interface.
func (s *MemoryItemStore) GetStatus() (schema.StoreStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := schema.StoreStatus{
		Backend:       string(schema.NoneBackend),
		Connected:     true,
		TotalItems:    len(s.items),
		Refresh:       s.refresh,
		TotalSettings: len(s.settings),
	}
	for _, it := range s.items {
		if it.Price > 0 {
			status.PricedItems++
		}
		if it.LastPriceUpdate.After(status.LastPriceUpdate) {
			status.LastPriceUpdate = it.LastPriceUpdate
		}
	}
	return status, nil
}

// Close implements the ItemStore interface.
func (s *MemoryItemStore) Close() error {
	return nil
}
