package session

import (
	"context"

	"github.com/wricardo/mcp-training/tronarena/game/engine"
)

// Store persists the leaderboard and the finished-match archive as whole
// collections. Load methods return empty collections when nothing has been
// saved yet.
type Store interface {
	LoadLeaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	SaveLeaderboard(ctx context.Context, entries []LeaderboardEntry) error
	LoadArchive(ctx context.Context) ([]engine.Snapshot, error)
	SaveArchive(ctx context.Context, games []engine.Snapshot) error
}

// Snapshot document names shared by the stores.
const (
	leaderboardDoc = "leaderboard"
	archiveDoc     = "finished_games"
)
