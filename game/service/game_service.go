package service

import (
	"context"

	"github.com/wricardo/mcp-training/tronarena/game/course"
	"github.com/wricardo/mcp-training/tronarena/game/engine"
	"github.com/wricardo/mcp-training/tronarena/game/events"
	"github.com/wricardo/mcp-training/tronarena/game/session"
)

// Commands are the player-facing operations. Every transport that lets a
// client play speaks exactly these, whether it runs in process or proxies to
// a remote server.
type Commands interface {
	Join(ctx context.Context, name string) (string, error)
	Look(ctx context.Context, name string) (string, error)
	Steer(ctx context.Context, name, direction string) (string, error)
	Status(ctx context.Context, name string) (string, error)
	LeaderboardText(ctx context.Context) (string, error)
}

// Arena adds the spectator projections used by the REST and WebSocket
// adapters.
type Arena interface {
	Commands

	Leaderboard(ctx context.Context) ([]session.LeaderboardEntry, error)
	ActiveGames(ctx context.Context) ([]engine.Snapshot, error)
	FinishedGames(ctx context.Context) ([]engine.Snapshot, error)
	Game(ctx context.Context, id string) (*engine.Snapshot, error)
	Courses(ctx context.Context) ([]*CourseInfo, error)
	Subscribe() *events.Subscription
}

// SessionManager is the part of *session.Manager the service depends on.
type SessionManager interface {
	Join(name string) (string, error)
	Look(name string) (string, error)
	Steer(name, direction string) (string, error)
	Status(name string) (string, error)
	Leaderboard() []session.LeaderboardEntry
	ActiveGames() []engine.Snapshot
	FinishedGames() []engine.Snapshot
	Game(id string) (engine.Snapshot, error)
	Courses() []course.Course
	Subscribe() *events.Subscription
}
