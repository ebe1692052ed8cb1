package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deckadvisor/deck-advisor/internal/cards"
	"github.com/deckadvisor/deck-advisor/internal/deck"
)

// ErrDeckNotFound is returned when a deck ID does not exist.
var ErrDeckNotFound = errors.New("deck not found")

// DeckRepository persists decks and their card lists.
type DeckRepository interface {
	// SaveDeck inserts or replaces a deck and all of its entries.
	SaveDeck(ctx context.Context, d *deck.Deck) error

	// GetDeck loads a deck by ID, including entries.
	GetDeck(ctx context.Context, id string) (*deck.Deck, error)

	// ListDecks returns deck IDs and names, most recently modified first.
	ListDecks(ctx context.Context) ([]*deck.Deck, error)

	// DeleteDeck removes a deck and its entries.
	DeleteDeck(ctx context.Context, id string) error
}

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a deck repository.
func NewDeckRepository(db *sql.DB) DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) SaveDeck(ctx context.Context, d *deck.Deck) error {
	if d == nil || d.ID == "" {
		return fmt.Errorf("deck with empty ID")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO decks (id, name, format, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			format = excluded.format,
			modified_at = excluded.modified_at
	`, d.ID, d.Name, d.Format, now, now)
	if err != nil {
		return fmt.Errorf("upsert deck: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, d.ID); err != nil {
		return fmt.Errorf("clear deck cards: %w", err)
	}

	for _, e := range d.Entries {
		payload, err := json.Marshal(e.Card)
		if err != nil {
			return fmt.Errorf("encode card %q: %w", e.Card.Name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO deck_cards (deck_id, card_name, quantity, sideboard, payload)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(deck_id, card_name, sideboard) DO UPDATE SET
				quantity = deck_cards.quantity + excluded.quantity
		`, d.ID, e.Card.Name, e.Quantity, boolToInt(e.Sideboard), string(payload))
		if err != nil {
			return fmt.Errorf("insert deck card %q: %w", e.Card.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deck save: %w", err)
	}
	return nil
}

func (r *deckRepository) GetDeck(ctx context.Context, id string) (*deck.Deck, error) {
	d := &deck.Deck{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, format FROM decks WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.Format)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query deck: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT card_name, quantity, sideboard, payload
		FROM deck_cards
		WHERE deck_id = ?
		ORDER BY sideboard, card_name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query deck cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			name      string
			quantity  int
			sideboard int
			payload   string
		)
		if err := rows.Scan(&name, &quantity, &sideboard, &payload); err != nil {
			return nil, fmt.Errorf("scan deck card: %w", err)
		}

		var card cards.Card
		if err := json.Unmarshal([]byte(payload), &card); err != nil {
			return nil, fmt.Errorf("decode deck card %q: %w", name, err)
		}
		if card.Name == "" {
			card.Name = name
		}
		d.AddCard(card, quantity, sideboard != 0)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deck cards: %w", err)
	}

	return d, nil
}

func (r *deckRepository) ListDecks(ctx context.Context) ([]*deck.Deck, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, format FROM decks ORDER BY modified_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decks []*deck.Deck
	for rows.Next() {
		d := &deck.Deck{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Format); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (r *deckRepository) DeleteDeck(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
