package agg

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
)

// Hydrate joins each record with its reference item using a pool of workers.
// The result has the same length and order as records. A record whose lookup
// fails gets the unknown placeholder. Only an unavailable store or a canceled
// context fails the whole call.
func Hydrate(ctx context.Context, records []schema.DropRecord, lookup contract.ItemLookup, workers int) ([]schema.HydratedRecord, error) {
	hydrated := make([]schema.HydratedRecord, len(records))
	if len(records) == 0 {
		return hydrated, nil
	}
	if workers <= 0 {
		workers = 1
	}

	jobCh := make(chan int, len(records))
	for i := range records {
		jobCh <- i
	}
	close(jobCh)

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		fatalErr error
	)
	for range workers {
		wg.Go(func() {
			for i := range jobCh {
				if workCtx.Err() != nil {
					return
				}
				item, err := hydrateOne(workCtx, lookup, records[i].ItemID)
				if err != nil {
					errOnce.Do(func() {
						fatalErr = err
						cancel()
					})
					return
				}
				hydrated[i] = schema.HydratedRecord{
					Timestamp: records[i].Timestamp,
					ItemID:    records[i].ItemID,
					Quantity:  records[i].Quantity,
					Item:      item,
				}
			}
		})
	}
	wg.Wait()

	if fatalErr != nil {
		return nil, fmt.Errorf("hydration failed: %w", fatalErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("hydration canceled: %w", err)
	}
	return hydrated, nil
}

// hydrateOne resolves a single item id. Recoverable errors become the placeholder.
func hydrateOne(ctx context.Context, lookup contract.ItemLookup, id int64) (schema.ItemReference, error) {
	item, err := lookup.LookupItem(ctx, id)
	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, contract.ErrStoreUnavailable):
		return schema.ItemReference{}, err
	case ctx.Err() != nil:
		return schema.ItemReference{}, ctx.Err()
	default:
		return schema.UnknownItem(), nil
	}
}

// cachedLookup resolves items through a get-or-compute cache.
type cachedLookup struct {
	lookup contract.ItemLookup
	cache  contract.LookupCache
}

var _ contract.ItemLookup = &cachedLookup{} // Compile-time check

// NewCachedLookup composes a lookup cache with any ItemLookup.
// A nil cache returns lookup unchanged.
func NewCachedLookup(lookup contract.ItemLookup, cache contract.LookupCache) contract.ItemLookup {
	if cache == nil {
		return lookup
	}
	return &cachedLookup{lookup: lookup, cache: cache}
}

// LookupItem implements the ItemLookup interface.
func (c *cachedLookup) LookupItem(ctx context.Context, id int64) (schema.ItemReference, error) {
	return c.cache.GetOrCompute(ctx, id, func(ctx context.Context) (schema.ItemReference, error) {
		return c.lookup.LookupItem(ctx, id)
	})
}
