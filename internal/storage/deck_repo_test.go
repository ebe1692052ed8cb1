package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckadvisor/deck-advisor/internal/cards"
	"github.com/deckadvisor/deck-advisor/internal/deck"
)

func testDeck() *deck.Deck {
	d := &deck.Deck{ID: "burn", Name: "Burn", Format: "standard"}
	d.AddCard(cards.Card{Name: "Shock", ManaValue: 1, TypeLine: "Instant", Colors: []string{"R"}}, 4, false)
	d.AddCard(cards.Card{Name: "Mountain", TypeLine: "Basic Land — Mountain"}, 20, false)
	d.AddCard(cards.Card{Name: "Smash to Smithereens", ManaValue: 2, TypeLine: "Instant"}, 2, true)
	return d
}

func TestDeckRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewDeckRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.SaveDeck(ctx, testDeck()))

	got, err := repo.GetDeck(ctx, "burn")
	require.NoError(t, err)
	assert.Equal(t, "Burn", got.Name)
	assert.Equal(t, "standard", got.Format)
	assert.Equal(t, 24, got.MainboardCount())
	assert.Len(t, got.Entries, 3)

	// Card metadata survives the payload round trip.
	for _, e := range got.Entries {
		if e.Card.Name == "Shock" {
			assert.Equal(t, float64(1), e.Card.ManaValue)
			assert.Equal(t, []string{"R"}, e.Card.Colors)
		}
	}

	// Fingerprints match, so batch state survives a reload.
	assert.Equal(t, testDeck().Fingerprint(), got.Fingerprint())
}

func TestDeckRepositorySaveReplaces(t *testing.T) {
	db := openTestDB(t)
	repo := NewDeckRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.SaveDeck(ctx, testDeck()))

	smaller := &deck.Deck{ID: "burn", Name: "Burn v2", Format: "standard"}
	smaller.AddCard(cards.Card{Name: "Shock"}, 4, false)
	require.NoError(t, repo.SaveDeck(ctx, smaller))

	got, err := repo.GetDeck(ctx, "burn")
	require.NoError(t, err)
	assert.Equal(t, "Burn v2", got.Name)
	assert.Len(t, got.Entries, 1, "old entries must be replaced, not merged")
}

func TestDeckRepositoryNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewDeckRepository(db.Conn())

	_, err := repo.GetDeck(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrDeckNotFound))

	err = repo.DeleteDeck(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrDeckNotFound))
}

func TestDeckRepositoryDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	repo := NewDeckRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.SaveDeck(ctx, testDeck()))
	require.NoError(t, repo.DeleteDeck(ctx, "burn"))

	var count int
	require.NoError(t, db.Conn().QueryRow(
		`SELECT COUNT(*) FROM deck_cards WHERE deck_id = 'burn'`).Scan(&count))
	assert.Zero(t, count, "deck cards must cascade on delete")
}

func TestDeckRepositoryList(t *testing.T) {
	db := openTestDB(t)
	repo := NewDeckRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.SaveDeck(ctx, testDeck()))

	other := &deck.Deck{ID: "mill", Name: "Mill", Format: "modern"}
	other.AddCard(cards.Card{Name: "Glimpse the Unthinkable"}, 4, false)
	require.NoError(t, repo.SaveDeck(ctx, other))

	decks, err := repo.ListDecks(ctx)
	require.NoError(t, err)
	assert.Len(t, decks, 2)
}

func TestDeckRepositoryRejectsEmptyID(t *testing.T) {
	db := openTestDB(t)
	repo := NewDeckRepository(db.Conn())

	err := repo.SaveDeck(context.Background(), &deck.Deck{Name: "No ID"})
	assert.Error(t, err)
}
