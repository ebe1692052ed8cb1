// Package cache provides a tiered read-through cache in front of a card
// catalog. Lookups hit an in-memory LRU first, then a SQLite-backed disk
// tier, then the wrapped catalog. Card data changes rarely, so entries
// stay valid for days.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/deckadvisor/deck-advisor/internal/cards"
	"github.com/deckadvisor/deck-advisor/internal/storage"
)

// DefaultTTL is how long cached catalog data stays fresh.
const DefaultTTL = 7 * 24 * time.Hour

const (
	defaultCardEntries   = 4096
	defaultSearchEntries = 256
)

// Catalog wraps an inner cards.Catalog with memory and disk caching.
type Catalog struct {
	inner  cards.Catalog
	repo   storage.CardRepository
	ttl    time.Duration
	logger *slog.Logger

	cardLRU   *lru.Cache[string, *cards.Card]
	searchLRU *lru.Cache[string, []*cards.Card]
}

// Option configures the cache.
type Option func(*Catalog)

// WithTTL overrides the freshness window for disk-tier entries.
func WithTTL(ttl time.Duration) Option {
	return func(c *Catalog) { c.ttl = ttl }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) { c.logger = logger }
}

// New creates a tiered cache around inner. repo may be nil, in which
// case only the memory tier is used.
func New(inner cards.Catalog, repo storage.CardRepository, opts ...Option) (*Catalog, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner catalog required")
	}

	cardLRU, err := lru.New[string, *cards.Card](defaultCardEntries)
	if err != nil {
		return nil, fmt.Errorf("create card LRU: %w", err)
	}
	searchLRU, err := lru.New[string, []*cards.Card](defaultSearchEntries)
	if err != nil {
		return nil, fmt.Errorf("create search LRU: %w", err)
	}

	c := &Catalog{
		inner:     inner,
		repo:      repo,
		ttl:       DefaultTTL,
		logger:    slog.Default(),
		cardLRU:   cardLRU,
		searchLRU: searchLRU,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LookupByName implements cards.Catalog. A miss in every tier returns
// (nil, nil), matching the inner catalog's contract.
func (c *Catalog) LookupByName(ctx context.Context, name string) (*cards.Card, error) {
	key := cards.NormalizeName(name)

	if card, ok := c.cardLRU.Get(key); ok {
		return card, nil
	}

	if c.repo != nil {
		card, fetchedAt, err := c.repo.GetCard(ctx, name)
		if err != nil {
			c.logger.Warn("card cache read failed", "name", name, "error", err)
		} else if card != nil && time.Since(fetchedAt) < c.ttl {
			c.cardLRU.Add(key, card)
			return card, nil
		}
	}

	card, err := c.inner.LookupByName(ctx, name)
	if err != nil {
		// Serve a stale disk entry rather than fail outright.
		if stale := c.staleCard(ctx, name); stale != nil {
			c.logger.Debug("serving stale cached card", "name", name)
			return stale, nil
		}
		return nil, err
	}
	if card == nil {
		return nil, nil
	}

	c.cardLRU.Add(key, card)
	c.storeCard(ctx, card)
	return card, nil
}

// Search implements cards.Catalog.
func (c *Catalog) Search(ctx context.Context, query cards.Query, limit int) ([]*cards.Card, error) {
	key := fmt.Sprintf("%s|%d", query.Key(), limit)

	if result, ok := c.searchLRU.Get(key); ok {
		return result, nil
	}

	if c.repo != nil {
		result, fetchedAt, err := c.repo.GetSearch(ctx, query.Key(), limit)
		if err != nil {
			c.logger.Warn("search cache read failed", "query", query.Key(), "error", err)
		} else if result != nil && time.Since(fetchedAt) < c.ttl {
			c.searchLRU.Add(key, result)
			return result, nil
		}
	}

	result, err := c.inner.Search(ctx, query, limit)
	if err != nil {
		if stale := c.staleSearch(ctx, query.Key(), limit); stale != nil {
			c.logger.Debug("serving stale cached search", "query", query.Key())
			return stale, nil
		}
		return nil, err
	}

	c.searchLRU.Add(key, result)
	if c.repo != nil {
		if err := c.repo.PutSearch(ctx, query.Key(), limit, result, time.Now()); err != nil {
			c.logger.Warn("search cache write failed", "query", query.Key(), "error", err)
		}
	}
	return result, nil
}

// Prune removes disk-tier entries older than the TTL.
func (c *Catalog) Prune(ctx context.Context) (int64, error) {
	if c.repo == nil {
		return 0, nil
	}
	return c.repo.PruneOlderThan(ctx, time.Now().Add(-c.ttl))
}

func (c *Catalog) staleCard(ctx context.Context, name string) *cards.Card {
	if c.repo == nil {
		return nil
	}
	card, _, err := c.repo.GetCard(ctx, name)
	if err != nil {
		return nil
	}
	return card
}

func (c *Catalog) staleSearch(ctx context.Context, queryKey string, limit int) []*cards.Card {
	if c.repo == nil {
		return nil
	}
	result, _, err := c.repo.GetSearch(ctx, queryKey, limit)
	if err != nil {
		return nil
	}
	return result
}

func (c *Catalog) storeCard(ctx context.Context, card *cards.Card) {
	if c.repo == nil {
		return
	}
	if err := c.repo.PutCard(ctx, card, time.Now()); err != nil {
		c.logger.Warn("card cache write failed", "name", card.Name, "error", err)
	}
}
