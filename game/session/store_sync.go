package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/tronarena/game/engine"
)

type persistState struct {
	version     uint64
	leaderboard []LeaderboardEntry
	archive     []engine.Snapshot
}

// persistSnapshot copies what the store needs. Must be called with m.mu held.
func (m *Manager) persistSnapshot() persistState {
	return persistState{
		version:     m.version,
		leaderboard: m.leaderboardCopy(),
		archive:     append([]engine.Snapshot(nil), m.archive...),
	}
}

// persist writes state unless a newer version has already been written.
// Failures are logged and otherwise ignored.
func (m *Manager) persist(ctx context.Context, state persistState) {
	if m.store == nil {
		return
	}

	m.persistMu.Lock()
	defer m.persistMu.Unlock()
	if state.version <= m.lastPersisted {
		return
	}

	if err := m.store.SaveLeaderboard(ctx, state.leaderboard); err != nil {
		m.logger.Warn("failed to persist leaderboard", zap.Error(err))
	}
	if err := m.store.SaveArchive(ctx, state.archive); err != nil {
		m.logger.Warn("failed to persist finished games", zap.Error(err))
	}
	m.lastPersisted = state.version
}

// Load replaces the leaderboard and archive with the persisted collections.
// Missing or unreadable storage leaves the state empty.
func (m *Manager) Load(ctx context.Context) {
	if m.store == nil {
		return
	}

	entries, err := m.store.LoadLeaderboard(ctx)
	if err != nil {
		m.logger.Warn("failed to load leaderboard, starting empty", zap.Error(err))
		entries = nil
	}
	archive, err := m.store.LoadArchive(ctx)
	if err != nil {
		m.logger.Warn("failed to load finished games, starting empty", zap.Error(err))
		archive = nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.leaderboard = nil
	m.leaders = make(map[string]*LeaderboardEntry, len(entries))
	for _, e := range entries {
		if _, dup := m.leaders[e.Name]; dup || e.Name == "" {
			continue
		}
		e := e
		m.leaders[e.Name] = &e
		m.leaderboard = append(m.leaderboard, &e)
	}

	if over := len(archive) - m.archiveSize; over > 0 {
		archive = archive[over:]
	}
	m.archive = append([]engine.Snapshot(nil), archive...)

	m.logger.Info("loaded persisted state",
		zap.Int("leaderboard_entries", len(m.leaderboard)),
		zap.Int("finished_games", len(m.archive)),
	)
}
