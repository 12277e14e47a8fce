package core

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/internal/iocache"
	"github.com/lootlens/lootlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testCatalog = []schema.CatalogItem{
	{ID: 995, Name: "Coins", Stackable: true},
	{ID: 4151, Name: "Abyssal whip", Alch: 72_000, Tradable: true},
	{ID: 20997, Name: "Twisted bow", Tradable: true},
	{ID: 12345, Name: "Unpriced thing"},
}

var testPrices = map[string]int64{
	"Coins":          1,
	"Abyssal whip":   1_500_000,
	"Twisted bow":    1_200_000_000,
	"Not in catalog": 99,
}

func TestShouldRefresh(t *testing.T) {
	stored := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		state    schema.RefreshState
		upstream time.Time
		expected bool
	}{
		{name: "never refreshed", state: schema.RefreshState{Status: schema.RefreshDefault}, expected: true},
		{name: "in progress", state: schema.RefreshState{Status: schema.RefreshInProgress, LastUpdated: stored}, expected: false},
		{name: "upstream newer", state: schema.RefreshState{Status: schema.RefreshCompleted, LastUpdated: stored}, upstream: stored.Add(time.Hour), expected: true},
		{name: "upstream same", state: schema.RefreshState{Status: schema.RefreshCompleted, LastUpdated: stored}, upstream: stored, expected: false},
		{name: "after error", state: schema.RefreshState{Status: schema.RefreshError, LastUpdated: stored}, upstream: stored.Add(time.Minute), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := iocache.NewMemoryItemStore()
			require.NoError(t, store.SetRefreshState(ctx, tt.state))

			client := &contract.MockPriceClient{}
			client.On("LatestUpdate", mock.Anything).Return(tt.upstream, nil).Maybe()

			due, err := ShouldRefresh(ctx, store, client)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, due)
		})
	}
}

func TestShouldRefresh_UpstreamError(t *testing.T) {
	ctx := context.Background()
	store := iocache.NewMemoryItemStore()
	require.NoError(t, store.SetRefreshState(ctx, schema.RefreshState{Status: schema.RefreshCompleted}))

	client := &contract.MockPriceClient{}
	client.On("LatestUpdate", mock.Anything).Return(time.Time{}, assert.AnError)

	_, err := ShouldRefresh(ctx, store, client)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRefreshPrices(t *testing.T) {
	ctx := context.Background()
	store := iocache.NewMemoryItemStore()
	client := &contract.MockPriceClient{}
	client.On("AllPrices", mock.Anything).Return(testPrices, nil)

	before := time.Now()
	count, err := RefreshPrices(ctx, store, client, testCatalog)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	whip, err := store.LookupItem(ctx, 4151)
	require.NoError(t, err)
	assert.Equal(t, int64(1_500_000), whip.Price)
	assert.Equal(t, int64(72_000), whip.Alch)
	assert.Equal(t, schema.RarityGreen, whip.Rarity)

	bow, err := store.LookupItem(ctx, 20997)
	require.NoError(t, err)
	assert.Equal(t, schema.RarityOrange, bow.Rarity)

	_, err = store.LookupItem(ctx, 12345)
	assert.ErrorIs(t, err, contract.ErrItemNotFound, "unpriced catalog items are not stored")

	state, err := store.GetRefreshState(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.RefreshCompleted, state.Status)
	assert.False(t, state.LastUpdated.Before(before))
}

func TestRefreshPrices_ChunkedUpserts(t *testing.T) {
	ctx := context.Background()
	catalog := make([]schema.CatalogItem, 0, 250)
	prices := make(map[string]int64, 250)
	for i := range 250 {
		name := fmt.Sprintf("Item %d", i)
		catalog = append(catalog, schema.CatalogItem{ID: int64(i + 1), Name: name})
		prices[name] = int64(i)
	}

	store := &iocache.MockItemStore{}
	store.On("GetRefreshState", mock.Anything).Return(schema.RefreshState{Status: schema.RefreshDefault}, nil)
	store.On("SetRefreshState", mock.Anything, mock.Anything).Return(nil)
	store.On("UpsertItems", mock.Anything, mock.Anything).Return(nil)

	client := &contract.MockPriceClient{}
	client.On("AllPrices", mock.Anything).Return(prices, nil)

	count, err := RefreshPrices(ctx, store, client, catalog)
	require.NoError(t, err)
	assert.Equal(t, 250, count)
	store.AssertNumberOfCalls(t, "UpsertItems", 3)
}

func TestRefreshPrices_FetchFailureMarksError(t *testing.T) {
	ctx := context.Background()
	stored := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	store := iocache.NewMemoryItemStore()
	require.NoError(t, store.SetRefreshState(ctx, schema.RefreshState{Status: schema.RefreshCompleted, LastUpdated: stored}))

	client := &contract.MockPriceClient{}
	client.On("AllPrices", mock.Anything).Return(nil, assert.AnError)

	_, err := RefreshPrices(ctx, store, client, testCatalog)
	assert.ErrorIs(t, err, assert.AnError)

	state, err := store.GetRefreshState(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.RefreshError, state.Status)
	assert.Equal(t, stored, state.LastUpdated, "failed refresh keeps the previous update time")
}

func TestRefreshPrices_CanceledMidRefreshIsRecoverable(t *testing.T) {
	store, err := iocache.NewItemStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "items.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	client := &contract.MockPriceClient{}
	client.On("AllPrices", mock.Anything).Run(func(mock.Arguments) { cancel() }).Return(nil, context.Canceled)
	client.On("LatestUpdate", mock.Anything).Return(time.Now(), nil)

	_, err = RefreshPrices(ctx, store, client, testCatalog)
	require.ErrorIs(t, err, context.Canceled)

	state, err := store.GetRefreshState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.RefreshError, state.Status, "a canceled refresh is not left in progress")

	due, err := ShouldRefresh(context.Background(), store, client)
	require.NoError(t, err)
	assert.True(t, due)
}

func TestPricedItems(t *testing.T) {
	updated := time.Unix(1_704_290_400, 0)
	items := PricedItems(testCatalog, testPrices, updated)
	require.Len(t, items, 3)
	assert.Equal(t, "Coins", items[0].Name)
	assert.Equal(t, schema.RarityWhite, items[0].Rarity)
	assert.True(t, items[0].Stackable)
	assert.Equal(t, updated, items[2].LastPriceUpdate)
	assert.Empty(t, PricedItems(testCatalog, nil, updated))
}

func TestRefreshIfStale_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	store := iocache.NewMemoryItemStore()
	cache := &iocache.MockLookupCache{}
	cache.On("Invalidate", mock.Anything).Return(nil)
	mgr := iocache.NewStoreManager(store, cache)

	client := &contract.MockPriceClient{}
	client.On("AllPrices", mock.Anything).Return(testPrices, nil)

	// An empty catalog path uses the bundled catalog
	count, refreshed, err := refreshIfStale(ctx, &contract.Config{}, mgr, client)
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Positive(t, count)
	cache.AssertCalled(t, "Invalidate", mock.Anything)

	// In progress refreshes are skipped without touching the cache
	require.NoError(t, store.SetRefreshState(ctx, schema.RefreshState{Status: schema.RefreshInProgress}))
	_, refreshed, err = refreshIfStale(ctx, &contract.Config{}, mgr, client)
	require.NoError(t, err)
	assert.False(t, refreshed)
	cache.AssertNumberOfCalls(t, "Invalidate", 1)
}

func TestRunRefreshLoop_StopsOnCancel(t *testing.T) {
	store := iocache.NewMemoryItemStore()
	mgr := iocache.NewStoreManager(store, iocache.NoopLookupCache{})

	client := &contract.MockPriceClient{}
	client.On("AllPrices", mock.Anything).Return(testPrices, nil)
	client.On("LatestUpdate", mock.Anything).Return(time.Time{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		RunRefreshLoop(ctx, &contract.Config{RefreshInterval: time.Hour}, mgr, client)
	}()

	require.Eventually(t, func() bool {
		state, _ := store.GetRefreshState(context.Background())
		return state.Status == schema.RefreshCompleted
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh loop did not stop")
	}
}
