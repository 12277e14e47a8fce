package core

import (
	"context"
	"fmt"
	"time"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/internal/pricing"
	"github.com/lootlens/lootlens/schema"
)

// refreshChunkSize is the number of items written per upsert transaction.
const refreshChunkSize = 100

// ShouldRefresh compares the stored refresh state with the upstream update time.
// A refresh never ran before is due, one in progress is not.
func ShouldRefresh(ctx context.Context, store contract.ItemStore, client contract.PriceClient) (bool, error) {
	state, err := store.GetRefreshState(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read refresh state: %w", err)
	}

	switch state.Status {
	case schema.RefreshDefault, "":
		return true, nil
	case schema.RefreshInProgress:
		return false, nil
	}

	latest, err := client.LatestUpdate(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read upstream update time: %w", err)
	}
	return latest.After(state.LastUpdated), nil
}

// RefreshPrices joins the item catalog with remote prices and stores the result.
// The refresh state is marked in progress, then completed or error. The final
// state is written even when ctx is canceled, so a refresh never stays in progress.
// It returns the number of items written.
func RefreshPrices(ctx context.Context, store contract.ItemStore, client contract.PriceClient, catalog []schema.CatalogItem) (int, error) {
	previous, err := store.GetRefreshState(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read refresh state: %w", err)
	}
	if err := store.SetRefreshState(ctx, schema.RefreshState{Status: schema.RefreshInProgress, LastUpdated: previous.LastUpdated}); err != nil {
		return 0, fmt.Errorf("failed to mark refresh in progress: %w", err)
	}

	count, err := writePrices(ctx, store, client, catalog)
	finalCtx := context.WithoutCancel(ctx)
	if err != nil {
		if stateErr := store.SetRefreshState(finalCtx, schema.RefreshState{Status: schema.RefreshError, LastUpdated: previous.LastUpdated}); stateErr != nil {
			contract.LogWarn("Cannot mark refresh as failed", stateErr)
		}
		return 0, err
	}

	if err := store.SetRefreshState(finalCtx, schema.RefreshState{Status: schema.RefreshCompleted, LastUpdated: time.Now()}); err != nil {
		return count, fmt.Errorf("failed to mark refresh completed: %w", err)
	}
	return count, nil
}

// writePrices upserts every priced catalog item in chunks.
func writePrices(ctx context.Context, store contract.ItemStore, client contract.PriceClient, catalog []schema.CatalogItem) (int, error) {
	prices, err := client.AllPrices(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch prices: %w", err)
	}

	items := PricedItems(catalog, prices, time.Now())
	for start := 0; start < len(items); start += refreshChunkSize {
		end := min(start+refreshChunkSize, len(items))
		if err := store.UpsertItems(ctx, items[start:end]); err != nil {
			return 0, fmt.Errorf("failed to store prices: %w", err)
		}
	}
	return len(items), nil
}

// PricedItems builds the reference rows of the catalog entries that have a price.
// The tier of each item follows from its price.
func PricedItems(catalog []schema.CatalogItem, prices map[string]int64, updated time.Time) []schema.ItemReference {
	items := make([]schema.ItemReference, 0, len(catalog))
	for _, c := range catalog {
		price, ok := prices[c.Name]
		if !ok {
			continue
		}
		items = append(items, schema.ItemReference{
			ID:              c.ID,
			Name:            c.Name,
			Price:           price,
			Alch:            c.Alch,
			Rarity:          schema.RarityFromPrice(price),
			Tradable:        c.Tradable,
			Stackable:       c.Stackable,
			LastPriceUpdate: updated,
		})
	}
	return items
}

// refreshIfStale runs a refresh when ShouldRefresh allows it and drops cached lookups afterwards.
func refreshIfStale(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, client contract.PriceClient) (int, bool, error) {
	store := mgr.GetItemStore()
	if store == nil {
		return 0, false, contract.ErrStoreUnavailable
	}

	due, err := ShouldRefresh(ctx, store, client)
	if err != nil || !due {
		return 0, false, err
	}

	catalog, err := pricing.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return 0, false, err
	}
	count, err := RefreshPrices(ctx, store, client, catalog)
	if err != nil {
		return 0, false, err
	}

	if cache := mgr.GetLookupCache(); cache != nil {
		if err := cache.Invalidate(ctx); err != nil {
			contract.LogWarn("Cannot invalidate lookup cache", err)
		}
	}
	return count, true, nil
}

// RunRefreshLoop refreshes prices now and then on every interval until ctx is done.
func RunRefreshLoop(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, client contract.PriceClient) {
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = contract.DefaultRefreshInterval
	}

	refresh := func() {
		count, refreshed, err := refreshIfStale(ctx, cfg, mgr, client)
		switch {
		case err != nil:
			contract.LogWarn("Price refresh failed", err)
		case refreshed:
			contract.LogInfo("Refreshed prices of %d items", count)
		}
	}

	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
