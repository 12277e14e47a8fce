package iocache

import (
	"context"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetItemStore implements the StoreManager interface.
func (m *MockStoreManager) GetItemStore() contract.ItemStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ItemStore)
	return store
}

// GetLookupCache implements the StoreManager interface.
func (m *MockStoreManager) GetLookupCache() contract.LookupCache {
	ret := m.Called()
	cache, _ := ret.Get(0).(contract.LookupCache)
	return cache
}

// MockItemStore is a mock implementation of ItemStore for testing.
type MockItemStore struct {
	mock.Mock
}

var _ contract.ItemStore = &MockItemStore{} // Compile-time check

// LookupItem implements the ItemLookup interface.
func (m *MockItemStore) LookupItem(ctx context.Context, id int64) (schema.ItemReference, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.ItemReference), args.Error(1)
}

// UpsertItems implements the ItemStore interface.
func (m *MockItemStore) UpsertItems(ctx context.Context, items []schema.ItemReference) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// GetRefreshState implements the ItemStore interface.
func (m *MockItemStore) GetRefreshState(ctx context.Context) (schema.RefreshState, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.RefreshState), args.Error(1)
}

// SetRefreshState implements the ItemStore interface.
func (m *MockItemStore) SetRefreshState(ctx context.Context, state schema.RefreshState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// GetSetting implements the ItemStore interface.
func (m *MockItemStore) GetSetting(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// SetSetting implements the ItemStore interface.
func (m *MockItemStore) SetSetting(ctx context.Context, key string, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// ListSettings implements the ItemStore interface.
func (m *MockItemStore) ListSettings(ctx context.Context) ([]schema.Setting, error) {
	args := m.Called(ctx)
	settings, _ := args.Get(0).([]schema.Setting)
	return settings, args.Error(1)
}

// Ping implements the ItemStore interface.
func (m *MockItemStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// GetStatus implements the ItemStore interface.
func (m *MockItemStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the ItemStore interface.
func (m *MockItemStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockLookupCache is a mock implementation of LookupCache for testing.
type MockLookupCache struct {
	mock.Mock
}

var _ contract.LookupCache = &MockLookupCache{} // Compile-time check

// GetOrCompute implements the LookupCache interface.
func (m *MockLookupCache) GetOrCompute(ctx context.Context, id int64, compute func(context.Context) (schema.ItemReference, error)) (schema.ItemReference, error) {
	args := m.Called(ctx, id, compute)
	return args.Get(0).(schema.ItemReference), args.Error(1)
}

// Invalidate implements the LookupCache interface.
func (m *MockLookupCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close implements the LookupCache interface.
func (m *MockLookupCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
