package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckadvisor/deck-advisor/internal/deck"
)

func TestCollectionRepositoryUpsert(t *testing.T) {
	db := openTestDB(t)
	repo := NewCollectionRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.UpsertCard(ctx, "Shock", 4, 1))

	q, err := repo.GetCard(ctx, "Shock")
	require.NoError(t, err)
	assert.Equal(t, deck.Quantities{Regular: 4, Foil: 1}, q)

	// Upsert replaces the previous quantities.
	require.NoError(t, repo.UpsertCard(ctx, "Shock", 2, 0))
	q, err = repo.GetCard(ctx, "Shock")
	require.NoError(t, err)
	assert.Equal(t, deck.Quantities{Regular: 2}, q)
}

func TestCollectionRepositoryMissIsZero(t *testing.T) {
	db := openTestDB(t)
	repo := NewCollectionRepository(db.Conn())

	q, err := repo.GetCard(context.Background(), "Nonexistent")
	require.NoError(t, err)
	assert.Equal(t, deck.Quantities{}, q)
}

func TestCollectionRepositorySnapshot(t *testing.T) {
	db := openTestDB(t)
	repo := NewCollectionRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.UpsertCard(ctx, "Shock", 4, 0))
	require.NoError(t, repo.UpsertCard(ctx, "Mountain", 20, 3))

	snapshot, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
	assert.Equal(t, 4, snapshot.Owned("Shock"))
	assert.Equal(t, 23, snapshot.Owned("Mountain"))
}

func TestCollectionRepositoryReplaceAll(t *testing.T) {
	db := openTestDB(t)
	repo := NewCollectionRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.UpsertCard(ctx, "Old Card", 1, 0))

	fresh := deck.Collection{
		"Shock":    {Regular: 4},
		"Mountain": {Regular: 12, Foil: 2},
	}
	require.NoError(t, repo.ReplaceAll(ctx, fresh))

	snapshot, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
	assert.Zero(t, snapshot.Owned("Old Card"))
	assert.Equal(t, 14, snapshot.Owned("Mountain"))
}
