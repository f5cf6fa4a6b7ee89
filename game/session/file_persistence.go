package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wricardo/mcp-training/tronarena/game/engine"
)

// FileStore keeps each collection in an indented JSON file inside a
// directory: leaderboard.json and finished_games.json.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string { return s.dir }

// LoadLeaderboard reads leaderboard.json.
func (s *FileStore) LoadLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	if err := s.read(ctx, leaderboardDoc, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveLeaderboard rewrites leaderboard.json.
func (s *FileStore) SaveLeaderboard(ctx context.Context, entries []LeaderboardEntry) error {
	if entries == nil {
		entries = []LeaderboardEntry{}
	}
	return s.write(ctx, leaderboardDoc, entries)
}

// LoadArchive reads finished_games.json.
func (s *FileStore) LoadArchive(ctx context.Context) ([]engine.Snapshot, error) {
	var games []engine.Snapshot
	if err := s.read(ctx, archiveDoc, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// SaveArchive rewrites finished_games.json.
func (s *FileStore) SaveArchive(ctx context.Context, games []engine.Snapshot) error {
	if games == nil {
		games = []engine.Snapshot{}
	}
	return s.write(ctx, archiveDoc, games)
}

func (s *FileStore) path(doc string) string {
	return filepath.Join(s.dir, doc+".json")
}

// read leaves v untouched when the file does not exist.
func (s *FileStore) read(ctx context.Context, doc string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(s.path(doc))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", doc, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", doc, err)
	}
	return nil
}

// write goes through a temporary file and a rename so readers never see a
// partial document.
func (s *FileStore) write(ctx context.Context, doc string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", doc, err)
	}

	tmp, err := os.CreateTemp(s.dir, doc+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", doc, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", doc, err)
	}
	if err := os.Rename(tmp.Name(), s.path(doc)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", doc, err)
	}
	return nil
}
