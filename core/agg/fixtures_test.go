package agg

import (
	"context"
	"sync"
	"time"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
)

// baseTime is Wednesday 2024-01-03 14:00 UTC.
var baseTime = time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC)

// Reference items shared by the tests.
var (
	coins      = schema.ItemReference{ID: 995, Name: "Coins", Price: 1, Rarity: schema.RarityWhite}
	whip       = schema.ItemReference{ID: 4151, Name: "Abyssal whip", Price: 1_500_000, Rarity: schema.RarityGreen}
	bandosTop  = schema.ItemReference{ID: 11832, Name: "Bandos chestplate", Price: 15_000_000, Rarity: schema.RarityBlue}
	godsword   = schema.ItemReference{ID: 11802, Name: "Armadyl godsword", Price: 120_000_000, Rarity: schema.RarityPurple}
	twistedBow = schema.ItemReference{ID: 20997, Name: "Twisted bow", Price: 1_200_000_000, Rarity: schema.RarityOrange}
	dragonBone = schema.ItemReference{ID: 536, Name: "Dragon bones", Price: 2_500, Rarity: schema.RarityGreen}
)

// dropScenario is one drop offset from baseTime.
type dropScenario struct {
	offset   time.Duration
	item     schema.ItemReference
	quantity int64
}

// generateRecords creates hydrated records from scenarios.
func generateRecords(scenarios []dropScenario) []schema.HydratedRecord {
	records := make([]schema.HydratedRecord, 0, len(scenarios))
	for _, s := range scenarios {
		records = append(records, schema.HydratedRecord{
			Timestamp: baseTime.Add(s.offset).Unix(),
			ItemID:    s.item.ID,
			Quantity:  s.quantity,
			Item:      s.item,
		})
	}
	return records
}

// generateMixedSession creates records across two buckets with every tier present.
func generateMixedSession() []schema.HydratedRecord {
	return generateRecords([]dropScenario{
		{0, coins, 1500},
		{time.Minute, whip, 1},
		{2 * time.Minute, bandosTop, 1},
		{3 * time.Minute, godsword, 1},
		{6 * time.Minute, dragonBone, 3},
		{7 * time.Minute, twistedBow, 1},
		{8 * time.Minute, coins, 250},
	})
}

// stubLookup is a map-backed ItemLookup that can fail for chosen ids.
type stubLookup struct {
	mu     sync.Mutex
	items  map[int64]schema.ItemReference
	errs   map[int64]error
	called map[int64]int
}

func newStubLookup(items ...schema.ItemReference) *stubLookup {
	s := &stubLookup{
		items:  make(map[int64]schema.ItemReference),
		errs:   make(map[int64]error),
		called: make(map[int64]int),
	}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *stubLookup) LookupItem(_ context.Context, id int64) (schema.ItemReference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called[id]++
	if err, ok := s.errs[id]; ok {
		return schema.ItemReference{}, err
	}
	if it, ok := s.items[id]; ok {
		return it, nil
	}
	return schema.ItemReference{}, contract.ErrItemNotFound
}

func (s *stubLookup) calls(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.called[id]
}

// mapCache is a minimal get-or-compute cache without expiry.
type mapCache struct {
	mu    sync.Mutex
	items map[int64]schema.ItemReference
}

func (c *mapCache) GetOrCompute(ctx context.Context, id int64, compute func(context.Context) (schema.ItemReference, error)) (schema.ItemReference, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if it, ok := c.items[id]; ok {
		return it, nil
	}
	it, err := compute(ctx)
	if err != nil {
		return schema.ItemReference{}, err
	}
	if c.items == nil {
		c.items = make(map[int64]schema.ItemReference)
	}
	c.items[id] = it
	return it, nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	return nil
}

func (c *mapCache) Close() error { return nil }

func ptr[T any](v T) *T { return &v }
