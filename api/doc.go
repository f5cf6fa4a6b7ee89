// Package api provides the HTTP surface of the light-cycle arena.
//
// Endpoints:
//
// Spectators:
//   - GET /api/games - live and archived matches (?status=active|finished)
//   - GET /api/games/{id} - one match snapshot
//   - GET /api/leaderboard - standings by total points
//   - GET /api/courses - the course catalog
//   - GET /api/stream - arena events as server-sent events
//   - GET /ws - arena events over WebSocket (?game_id=<id> to watch one match)
//
// Players:
//   - POST /api/players/{name}/join
//   - POST /api/players/{name}/steer - body {"direction": "left"}
//   - GET /api/players/{name}/look
//   - GET /api/players/{name}/status
//
// Player commands answer {"player": ..., "message": ...} with the same text
// the TCP and MCP transports return. Errors answer {"error": ...}: unknown
// players and games are 404, bad input is 400, and commands that do not fit
// the player's current state are 409.
//
// POST /mcp accepts one MCP JSON-RPC message per request when an MCP handler
// is configured.
package api
