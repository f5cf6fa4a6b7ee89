package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/tronarena/game/engine"
	"github.com/wricardo/mcp-training/tronarena/game/events"
	"github.com/wricardo/mcp-training/tronarena/game/session"
)

// arenaImpl implements Arena on top of the session manager.
type arenaImpl struct {
	sessions SessionManager
	logger   *zap.Logger
}

// NewArena creates the in-process Arena.
func NewArena(sessions SessionManager, logger *zap.Logger) Arena {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &arenaImpl{sessions: sessions, logger: logger}
}

func (a *arenaImpl) Join(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	msg, err := a.sessions.Join(name)
	if err != nil {
		a.logger.Debug("join rejected", zap.String("player", name), zap.Error(err))
		return "", err
	}
	a.logger.Debug("player joined", zap.String("player", name))
	return msg, nil
}

func (a *arenaImpl) Look(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return a.sessions.Look(name)
}

func (a *arenaImpl) Steer(ctx context.Context, name, direction string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return a.sessions.Steer(name, direction)
}

func (a *arenaImpl) Status(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return a.sessions.Status(name)
}

func (a *arenaImpl) LeaderboardText(ctx context.Context) (string, error) {
	entries, err := a.Leaderboard(ctx)
	if err != nil {
		return "", err
	}
	return FormatLeaderboard(entries), nil
}

func (a *arenaImpl) Leaderboard(ctx context.Context) ([]session.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.sessions.Leaderboard(), nil
}

func (a *arenaImpl) ActiveGames(ctx context.Context) ([]engine.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.sessions.ActiveGames(), nil
}

func (a *arenaImpl) FinishedGames(ctx context.Context) ([]engine.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.sessions.FinishedGames(), nil
}

func (a *arenaImpl) Game(ctx context.Context, id string) (*engine.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := a.sessions.Game(id)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (a *arenaImpl) Courses(ctx context.Context) ([]*CourseInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	courses := a.sessions.Courses()
	out := make([]*CourseInfo, 0, len(courses))
	for _, c := range courses {
		out = append(out, NewCourseInfo(c))
	}
	return out, nil
}

func (a *arenaImpl) Subscribe() *events.Subscription {
	return a.sessions.Subscribe()
}
