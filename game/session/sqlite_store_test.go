package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tron.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)

	entries, err := store.LoadLeaderboard(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	want := []LeaderboardEntry{{Name: "alice", Wins: 1, TotalPoints: 303, GamesPlayed: 1, HighestLevel: 2}}
	archive := sampleArchive(t)
	require.NoError(t, store.SaveLeaderboard(ctx, want))
	require.NoError(t, store.SaveArchive(ctx, archive))
	require.NoError(t, store.SaveLeaderboard(ctx, want))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.LoadLeaderboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	games, err := reopened.LoadArchive(ctx)
	require.NoError(t, err)
	assert.Equal(t, archive, games)
}

func TestSQLiteStoreInMemoryWithManager(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	m := newTestManager(t, WithStore(store))
	startMatch(t, m, "alice", "bob")
	crash(t, m, "bob")

	restored := newTestManager(t, WithStore(store))
	restored.Load(context.Background())
	assert.Equal(t, m.Leaderboard(), restored.Leaderboard())
	assert.Equal(t, m.FinishedGames(), restored.FinishedGames())
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite(" ")
	assert.Error(t, err)
}
