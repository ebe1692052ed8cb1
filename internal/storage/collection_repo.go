package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/deckadvisor/deck-advisor/internal/deck"
)

// CollectionRepository persists the user's card collection.
type CollectionRepository interface {
	// UpsertCard sets the owned quantities for a card.
	UpsertCard(ctx context.Context, name string, regular, foil int) error

	// GetCard returns the owned quantities for a card; missing cards
	// yield zero quantities, not an error.
	GetCard(ctx context.Context, name string) (deck.Quantities, error)

	// Snapshot returns the entire collection as a read-only map.
	Snapshot(ctx context.Context) (deck.Collection, error)

	// ReplaceAll atomically replaces the whole collection, as after a
	// full CSV re-import.
	ReplaceAll(ctx context.Context, collection deck.Collection) error
}

type collectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a collection repository.
func NewCollectionRepository(db *sql.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) UpsertCard(ctx context.Context, name string, regular, foil int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collection (card_name, regular, foil, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(card_name) DO UPDATE SET
			regular = excluded.regular,
			foil = excluded.foil,
			updated_at = excluded.updated_at
	`, name, regular, foil, time.Now())
	if err != nil {
		return fmt.Errorf("upsert collection card: %w", err)
	}
	return nil
}

func (r *collectionRepository) GetCard(ctx context.Context, name string) (deck.Quantities, error) {
	var q deck.Quantities
	err := r.db.QueryRowContext(ctx,
		`SELECT regular, foil FROM collection WHERE card_name = ?`, name,
	).Scan(&q.Regular, &q.Foil)
	if errors.Is(err, sql.ErrNoRows) {
		return deck.Quantities{}, nil
	}
	if err != nil {
		return deck.Quantities{}, fmt.Errorf("query collection card: %w", err)
	}
	return q, nil
}

func (r *collectionRepository) Snapshot(ctx context.Context) (deck.Collection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT card_name, regular, foil FROM collection`)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	defer func() { _ = rows.Close() }()

	collection := make(deck.Collection)
	for rows.Next() {
		var name string
		var q deck.Quantities
		if err := rows.Scan(&name, &q.Regular, &q.Foil); err != nil {
			return nil, fmt.Errorf("scan collection card: %w", err)
		}
		collection[name] = q
	}
	return collection, rows.Err()
}

func (r *collectionRepository) ReplaceAll(ctx context.Context, collection deck.Collection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM collection`); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}

	now := time.Now()
	for name, q := range collection {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO collection (card_name, regular, foil, updated_at)
			VALUES (?, ?, ?, ?)
		`, name, q.Regular, q.Foil, now)
		if err != nil {
			return fmt.Errorf("insert collection card %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit collection replace: %w", err)
	}
	return nil
}
