package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/tronarena/game/events"
	"github.com/wricardo/mcp-training/tronarena/game/session"
	"github.com/wricardo/mcp-training/tronarena/internal/config"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "Tron Light-Cycle Arena", AppName)
}

func TestNewAppCommands(t *testing.T) {
	app := newApp()
	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"serve", "play", "courses"}, names)
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(context.Background(), append([]string{"tron"}, args...))
	return out.String(), err
}

func TestCoursesCommand(t *testing.T) {
	out, err := runApp(t, "courses")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "LEVEL")
	assert.Contains(t, lines[1], "Open Arena")
	assert.Contains(t, lines[1], "30x30")
}

func TestCoursesCommandWithExtraCourses(t *testing.T) {
	dir := t.TempDir()
	yaml := `name: Box
max_trail_length: 20
max_players: 2
layout:
  - "##########"
  - "#........#"
  - "#........#"
  - "#...XX...#"
  - "#........#"
  - "#........#"
  - "#...##...#"
  - "#........#"
  - "#........#"
  - "##########"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "box.yaml"), []byte(yaml), 0644))

	out, err := runApp(t, "courses", "--courses-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Box")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[6], "6 "), lines[6])
}

func TestCoursesCommandBadDir(t *testing.T) {
	_, err := runApp(t, "courses", "--courses-dir", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading courses")
}

func TestMissingConfigFile(t *testing.T) {
	_, err := runApp(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "courses")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestInvalidLogLevelFlag(t *testing.T) {
	_, err := runApp(t, "--log-level", "loud", "courses")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestOpenStore(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		store, closeStore, err := openStore(config.StorageConfig{Driver: "file", Dir: dir})
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &session.FileStore{}, store)
		assert.DirExists(t, dir)
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "tron.db")
		store, closeStore, err := openStore(config.StorageConfig{Driver: "sqlite", SQLitePath: path})
		require.NoError(t, err)
		assert.IsType(t, &session.SQLiteStore{}, store)
		require.NoError(t, closeStore())
		assert.FileExists(t, path)
	})

	t.Run("none", func(t *testing.T) {
		store, closeStore, err := openStore(config.StorageConfig{Driver: "none"})
		require.NoError(t, err)
		assert.Nil(t, store)
		assert.NoError(t, closeStore())
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := openStore(config.StorageConfig{Driver: "redis"})
		assert.Error(t, err)
	})
}

type countingTicker struct {
	ticks atomic.Int64
}

func (c *countingTicker) TickAll(context.Context) {
	c.ticks.Add(1)
}

func TestRunTicker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tk := &countingTicker{}
	done := make(chan struct{})
	go func() {
		runTicker(ctx, tk, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return tk.ticks.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runTicker did not stop")
	}
}

func TestNewManagerRestoresState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := session.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveLeaderboard(ctx, []session.LeaderboardEntry{
		{Name: "alice", Wins: 2, TotalPoints: 600, GamesPlayed: 3, HighestLevel: 3},
	}))

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Game.Seed = 7

	m, err := newManager(ctx, cfg, store, events.NewBroker(4), zap.NewNop())
	require.NoError(t, err)

	board := m.Leaderboard()
	require.Len(t, board, 1)
	assert.Equal(t, "alice", board[0].Name)
	assert.Equal(t, 600, board[0].TotalPoints)
	assert.Len(t, m.Courses(), 5)
}
