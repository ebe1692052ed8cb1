package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deckadvisor/deck-advisor/internal/cards"
)

// CardRepository persists cached catalog responses: individual cards by
// name and whole search results by query key. It is the disk tier of the
// catalog cache.
type CardRepository interface {
	// GetCard returns a cached card and when it was fetched. A cache miss
	// yields (nil, zero time, nil).
	GetCard(ctx context.Context, name string) (*cards.Card, time.Time, error)

	// PutCard stores or replaces a cached card.
	PutCard(ctx context.Context, card *cards.Card, fetchedAt time.Time) error

	// GetSearch returns a cached search result for a query key and limit.
	// A cache miss yields (nil, zero time, nil).
	GetSearch(ctx context.Context, queryKey string, limit int) ([]*cards.Card, time.Time, error)

	// PutSearch stores or replaces a cached search result.
	PutSearch(ctx context.Context, queryKey string, limit int, result []*cards.Card, fetchedAt time.Time) error

	// PruneOlderThan removes cache entries fetched before the cutoff and
	// returns how many rows were deleted.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a card cache repository.
func NewCardRepository(db *sql.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) GetCard(ctx context.Context, name string) (*cards.Card, time.Time, error) {
	var payload string
	var fetchedAt time.Time

	err := r.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM cached_cards WHERE name = ?`, name,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query cached card: %w", err)
	}

	var card cards.Card
	if err := json.Unmarshal([]byte(payload), &card); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode cached card %q: %w", name, err)
	}
	return &card, fetchedAt, nil
}

func (r *cardRepository) PutCard(ctx context.Context, card *cards.Card, fetchedAt time.Time) error {
	if card == nil {
		return fmt.Errorf("nil card")
	}
	payload, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("encode card %q: %w", card.Name, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cached_cards (name, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, card.Name, string(payload), fetchedAt)
	if err != nil {
		return fmt.Errorf("upsert cached card: %w", err)
	}
	return nil
}

func (r *cardRepository) GetSearch(ctx context.Context, queryKey string, limit int) ([]*cards.Card, time.Time, error) {
	var payload string
	var fetchedAt time.Time

	err := r.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM cached_searches WHERE query_key = ? AND result_limit = ?`,
		queryKey, limit,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query cached search: %w", err)
	}

	var result []*cards.Card
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode cached search %q: %w", queryKey, err)
	}
	return result, fetchedAt, nil
}

func (r *cardRepository) PutSearch(ctx context.Context, queryKey string, limit int, result []*cards.Card, fetchedAt time.Time) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode search result: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cached_searches (query_key, result_limit, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(query_key, result_limit) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, queryKey, limit, string(payload), fetchedAt)
	if err != nil {
		return fmt.Errorf("upsert cached search: %w", err)
	}
	return nil
}

func (r *cardRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var pruned int64

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cached_cards WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune cached cards: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		pruned += n
	}

	res, err = r.db.ExecContext(ctx,
		`DELETE FROM cached_searches WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return pruned, fmt.Errorf("prune cached searches: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		pruned += n
	}

	return pruned, nil
}
