package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/tronarena/game/service"
)

const instructions = `Tron Light-Cycle Arena - MCP Interface

You control a light-cycle on a grid shared with other players. The arena
advances on a fixed tick: every cycle moves one cell per tick, and your
latest steer before the tick decides the direction. Crash into a wall, an
obstruction or any trail and you are out. Last cycle standing wins.

AVAILABLE TOOLS:
- join_game: Join the next match (remembers your name for the other tools)
- look: See the grid around your cycle (call before every steer!)
- steer: Queue a turn for the next tick: left, right or straight
- game_status: Waiting, running or finished, plus scores
- leaderboard: Top players by total points

Winning a match raises your level, and the next match you join is played on
a harder course.`

// Server exposes the arena commands as MCP tools.
type Server struct {
	cmds      service.Commands
	logger    *zap.Logger
	mcpServer *server.MCPServer

	mu      sync.Mutex
	players map[string]string
}

// NewServer creates an MCP tool server backed by cmds, which may be the
// in-process arena or a TCP client.
func NewServer(cmds service.Commands, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{cmds: cmds, logger: logger, players: make(map[string]string)}
	s.initMCPServer()
	return s
}

func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"Tron Light-Cycle Arena",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	s.registerTools()
}

func (s *Server) registerTools() {
	nameProperty := map[string]interface{}{
		"type":        "string",
		"description": "Player name (optional once join_game has been called)",
	}

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "join_game",
		Description: "Join the next available light-cycle match. You are matched with other queued players; once the match starts use 'look' and 'steer'.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Your display name for the game",
				},
			},
			Required: []string{"name"},
		},
	}, s.handleJoin)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "look",
		Description: "Look at the grid around your light-cycle: you (@), your trail (|), other players and their trails (1-9), walls (#), obstructions (X) and empty space (.).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": nameProperty,
			},
		},
	}, s.handleLook)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "steer",
		Description: "Steer your light-cycle for the next tick: 'left' or 'right' turn relative to your heading, 'straight' keeps it. The latest steer before a tick wins.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "Direction to steer",
					"enum":        []string{"left", "right", "straight"},
				},
				"name": nameProperty,
			},
			Required: []string{"direction"},
		},
	}, s.handleSteer)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_status",
		Description: "Get your game status: waiting, running or finished, the winner and your score. If you won, join_game again to play the next level.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": nameProperty,
			},
		},
	}, s.handleStatus)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Show the leaderboard ordered by total points",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleLeaderboard)
}

// GetMCPServer returns the underlying MCP server.
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// HandleMessage processes one JSON-RPC message.
func (s *Server) HandleMessage(ctx context.Context, body []byte) mcp.JSONRPCMessage {
	return s.mcpServer.HandleMessage(ctx, body)
}

// ServeHTTP accepts a single JSON-RPC message per POST request. The name
// remembered by join_game belongs to the Mcp-Session-Id the request carries;
// a request without one is given a fresh id in the response header.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(SessionHeader, id)

	response := s.HandleMessage(withSession(r.Context(), id), body)
	if response == nil {
		// Notifications carry no reply.
		w.WriteHeader(http.StatusAccepted)
		return
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("failed to marshal mcp response", zap.Error(err))
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(responseData)
}
