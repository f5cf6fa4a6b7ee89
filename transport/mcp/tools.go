package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

var errNoPlayer = errors.New("Use join_game first.")

// SessionHeader carries the MCP session id over HTTP.
const SessionHeader = "Mcp-Session-Id"

type sessionKey struct{}

func withSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// sessionID returns the HTTP session of ctx, or "" for stdio, which has a
// single client.
func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

func stringArg(request mcp.CallToolRequest, key string) string {
	v, _ := arguments(request)[key].(string)
	return strings.TrimSpace(v)
}

// playerName returns the name passed with the request, falling back to the
// one remembered by join_game in the same session.
func (s *Server) playerName(ctx context.Context, request mcp.CallToolRequest) (string, error) {
	if name := stringArg(request, "name"); name != "" {
		return name, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.players[sessionID(ctx)]
	if !ok {
		return "", errNoPlayer
	}
	return name, nil
}

func (s *Server) remember(ctx context.Context, name string) {
	s.mu.Lock()
	s.players[sessionID(ctx)] = name
	s.mu.Unlock()
}

func (s *Server) result(tool string, msg string, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		s.logger.Debug("tool call failed", zap.String("tool", tool), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (s *Server) handleJoin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringArg(request, "name")
	if name == "" {
		return mcp.NewToolResultError("Name cannot be empty."), nil
	}
	s.remember(ctx, name)

	msg, err := s.cmds.Join(ctx, name)
	return s.result("join_game", msg, err)
}

func (s *Server) handleLook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := s.playerName(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	msg, err := s.cmds.Look(ctx, name)
	return s.result("look", msg, err)
}

func (s *Server) handleSteer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := s.playerName(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	direction := strings.ToLower(stringArg(request, "direction"))
	switch direction {
	case "left", "right", "straight":
	default:
		return mcp.NewToolResultError("Direction must be 'left', 'right', or 'straight'."), nil
	}

	msg, err := s.cmds.Steer(ctx, name, direction)
	return s.result("steer", msg, err)
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := s.playerName(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	msg, err := s.cmds.Status(ctx, name)
	return s.result("game_status", msg, err)
}

func (s *Server) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msg, err := s.cmds.LeaderboardText(ctx)
	return s.result("leaderboard", msg, err)
}
