package catalog

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/mauv0809/card-swap/internal/trade"
	"github.com/sahilm/fuzzy"
)

const setsKey = "sets"

// Catalog is a read-through cache over the reference data. Reference data only
// changes on import, so callers invalidate explicitly afterwards.
type Catalog struct {
	store trade.Store
	cache *lru.Cache
}

// New creates a catalog caching up to size entries.
func New(store trade.Store, size int) (*Catalog, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog cache: %w", err)
	}
	return &Catalog{store: store, cache: cache}, nil
}

// Sets returns all known card sets.
func (c *Catalog) Sets(ctx context.Context) ([]trade.CardSet, error) {
	if v, ok := c.cache.Get(setsKey); ok {
		return v.([]trade.CardSet), nil
	}
	sets, err := c.store.ListCardSets(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Add(setsKey, sets)
	return sets, nil
}

// Cards returns the cards of one set. Set codes are matched case-insensitively.
func (c *Catalog) Cards(ctx context.Context, setCode string) ([]trade.CardDefinition, error) {
	setCode = strings.ToLower(strings.TrimSpace(setCode))
	key := "cards:" + setCode
	if v, ok := c.cache.Get(key); ok {
		return v.([]trade.CardDefinition), nil
	}
	defs, err := c.store.ListCardDefinitions(ctx, setCode)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, defs)
	return defs, nil
}

// Invalidate drops everything cached, typically after an import.
func (c *Catalog) Invalidate() {
	c.cache.Purge()
}

// definitions implements fuzzy.Source over card names.
type definitions []trade.CardDefinition

func (d definitions) String(i int) string {
	return strings.ToLower(d[i].CardName)
}

func (d definitions) Len() int {
	return len(d)
}

// Suggest returns up to limit reference cards whose names fuzzily match query,
// best match first. Suggestions are advisory: listings are never checked against them.
func (c *Catalog) Suggest(ctx context.Context, query string, limit int) ([]trade.CardDefinition, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []trade.CardDefinition{}, nil
	}

	sets, err := c.Sets(ctx)
	if err != nil {
		return nil, err
	}
	var all definitions
	for _, set := range sets {
		defs, err := c.Cards(ctx, set.Code)
		if err != nil {
			return nil, err
		}
		all = append(all, defs...)
	}

	matches := fuzzy.FindFrom(query, all)
	results := make([]trade.CardDefinition, 0, len(matches))
	for _, m := range matches {
		if limit > 0 && len(results) == limit {
			break
		}
		results = append(results, all[m.Index])
	}
	return results, nil
}
