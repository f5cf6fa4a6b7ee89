package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/tronarena/game/course"
	"github.com/wricardo/mcp-training/tronarena/game/service"
	"github.com/wricardo/mcp-training/tronarena/game/session"
)

type call struct {
	verb string
	args []string
}

// fakeCommands records calls and answers with canned text.
type fakeCommands struct {
	calls []call
	err   error
}

func (f *fakeCommands) record(verb string, args ...string) (string, error) {
	f.calls = append(f.calls, call{verb: verb, args: args})
	if f.err != nil {
		return "", f.err
	}
	return verb + " ok", nil
}

func (f *fakeCommands) Join(_ context.Context, name string) (string, error) {
	return f.record("join", name)
}

func (f *fakeCommands) Look(_ context.Context, name string) (string, error) {
	return f.record("look", name)
}

func (f *fakeCommands) Steer(_ context.Context, name, direction string) (string, error) {
	return f.record("steer", name, direction)
}

func (f *fakeCommands) Status(_ context.Context, name string) (string, error) {
	return f.record("status", name)
}

func (f *fakeCommands) LeaderboardText(context.Context) (string, error) {
	return f.record("leaderboard")
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, result.IsError
}

func TestNewServer(t *testing.T) {
	s := NewServer(&fakeCommands{}, nil)
	require.NotNil(t, s.GetMCPServer())
	assert.NotNil(t, s.logger)
}

func TestJoinRemembersName(t *testing.T) {
	cmds := &fakeCommands{}
	s := NewServer(cmds, nil)

	text, isErr := callTool(t, s.handleJoin, "join_game", map[string]interface{}{"name": "  alice "})
	assert.False(t, isErr)
	assert.Equal(t, "join ok", text)

	_, isErr = callTool(t, s.handleLook, "look", map[string]interface{}{})
	assert.False(t, isErr)
	_, isErr = callTool(t, s.handleSteer, "steer", map[string]interface{}{"direction": "LEFT"})
	assert.False(t, isErr)
	_, isErr = callTool(t, s.handleStatus, "game_status", nil)
	assert.False(t, isErr)

	assert.Equal(t, []call{
		{verb: "join", args: []string{"alice"}},
		{verb: "look", args: []string{"alice"}},
		{verb: "steer", args: []string{"alice", "left"}},
		{verb: "status", args: []string{"alice"}},
	}, cmds.calls)
}

func TestExplicitNameWins(t *testing.T) {
	cmds := &fakeCommands{}
	s := NewServer(cmds, nil)

	callTool(t, s.handleJoin, "join_game", map[string]interface{}{"name": "alice"})
	callTool(t, s.handleLook, "look", map[string]interface{}{"name": "bob"})

	require.Len(t, cmds.calls, 2)
	assert.Equal(t, []string{"bob"}, cmds.calls[1].args)
}

func TestToolsRequireJoin(t *testing.T) {
	cmds := &fakeCommands{}
	s := NewServer(cmds, nil)

	for name, handler := range map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"look":        s.handleLook,
		"game_status": s.handleStatus,
	} {
		text, isErr := callTool(t, handler, name, map[string]interface{}{})
		assert.True(t, isErr, name)
		assert.Equal(t, "Use join_game first.", text, name)
	}

	text, isErr := callTool(t, s.handleSteer, "steer", map[string]interface{}{"direction": "left"})
	assert.True(t, isErr)
	assert.Equal(t, "Use join_game first.", text)
	assert.Empty(t, cmds.calls)
}

func TestJoinRejectsEmptyName(t *testing.T) {
	cmds := &fakeCommands{}
	s := NewServer(cmds, nil)

	text, isErr := callTool(t, s.handleJoin, "join_game", map[string]interface{}{"name": "   "})
	assert.True(t, isErr)
	assert.Equal(t, "Name cannot be empty.", text)
	assert.Empty(t, cmds.calls)
}

func TestSteerRejectsBadDirection(t *testing.T) {
	cmds := &fakeCommands{}
	s := NewServer(cmds, nil)

	text, isErr := callTool(t, s.handleSteer, "steer", map[string]interface{}{"name": "alice", "direction": "up"})
	assert.True(t, isErr)
	assert.Contains(t, text, "Direction must be")
	assert.Empty(t, cmds.calls)
}

func TestCommandErrorsBecomeToolErrors(t *testing.T) {
	cmds := &fakeCommands{err: errors.New("Player not found. Use join_game first.")}
	s := NewServer(cmds, nil)

	text, isErr := callTool(t, s.handleLook, "look", map[string]interface{}{"name": "ghost"})
	assert.True(t, isErr)
	assert.Equal(t, "Player not found. Use join_game first.", text)

	text, isErr = callTool(t, s.handleLeaderboard, "leaderboard", nil)
	assert.True(t, isErr)
	assert.Equal(t, "Player not found. Use join_game first.", text)
}

func TestToolsAgainstArena(t *testing.T) {
	catalog, err := course.NewCatalog(1)
	require.NoError(t, err)
	arena := service.NewArena(session.NewManager(session.WithCatalog(catalog)), nil)

	alice := NewServer(arena, nil)
	bob := NewServer(arena, nil)

	text, isErr := callTool(t, alice.handleJoin, "join_game", map[string]interface{}{"name": "alice"})
	require.False(t, isErr)
	assert.Contains(t, text, "Waiting for opponents")

	text, isErr = callTool(t, alice.handleLook, "look", nil)
	assert.True(t, isErr)
	assert.Equal(t, "Not in a game yet. Waiting for opponents.", text)

	text, isErr = callTool(t, bob.handleJoin, "join_game", map[string]interface{}{"name": "bob"})
	require.False(t, isErr)
	assert.Contains(t, text, "Match started")

	text, isErr = callTool(t, bob.handleSteer, "steer", map[string]interface{}{"direction": "right"})
	require.False(t, isErr)
	assert.Equal(t, "Steering right applied.", text)

	text, isErr = callTool(t, alice.handleStatus, "game_status", nil)
	require.False(t, isErr)
	assert.Contains(t, text, "Status: RUNNING")

	text, isErr = callTool(t, alice.handleLeaderboard, "leaderboard", nil)
	require.False(t, isErr)
	assert.Equal(t, "Leaderboard is empty. Win a match to get on it!", text)
}

func TestServeHTTP(t *testing.T) {
	s := NewServer(&fakeCommands{}, nil)

	t.Run("rejects GET", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("lists tools", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		for _, tool := range []string{"join_game", "look", "steer", "game_status", "leaderboard"} {
			assert.Contains(t, rec.Body.String(), `"`+tool+`"`)
		}
	})
}

// postTool sends one tools/call over HTTP and returns the response recorder
// and the text of the first content item.
func postTool(t *testing.T, s *Server, sessionID, tool string, args map[string]interface{}) (*httptest.ResponseRecorder, string) {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]interface{}{"name": tool, "arguments": args},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Result.Content)
	return rec, resp.Result.Content[0].Text
}

func TestHTTPSessionsKeepTheirOwnName(t *testing.T) {
	cmds := &fakeCommands{}
	s := NewServer(cmds, nil)

	rec, _ := postTool(t, s, "", "join_game", map[string]interface{}{"name": "alice"})
	aliceSession := rec.Header().Get(SessionHeader)
	require.NotEmpty(t, aliceSession)

	rec, _ = postTool(t, s, "", "join_game", map[string]interface{}{"name": "bob"})
	bobSession := rec.Header().Get(SessionHeader)
	require.NotEmpty(t, bobSession)
	require.NotEqual(t, aliceSession, bobSession)

	rec, text := postTool(t, s, aliceSession, "steer", map[string]interface{}{"direction": "left"})
	assert.Equal(t, "steer ok", text)
	assert.Equal(t, aliceSession, rec.Header().Get(SessionHeader))

	_, text = postTool(t, s, bobSession, "look", map[string]interface{}{})
	assert.Equal(t, "look ok", text)

	assert.Equal(t, []call{
		{verb: "join", args: []string{"alice"}},
		{verb: "join", args: []string{"bob"}},
		{verb: "steer", args: []string{"alice", "left"}},
		{verb: "look", args: []string{"bob"}},
	}, cmds.calls)

	t.Run("unknown session must join first", func(t *testing.T) {
		_, text := postTool(t, s, "", "game_status", map[string]interface{}{})
		assert.Equal(t, "Use join_game first.", text)
		assert.Len(t, cmds.calls, 4)
	})
}
