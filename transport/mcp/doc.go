// Package mcp exposes the light-cycle arena as Model Context Protocol tools.
//
// Tools:
//   - join_game: join the matchmaking queue under a name
//   - look: render the grid around the player's cycle
//   - steer: queue left, right or straight for the next tick
//   - game_status: waiting, running or finished, with scores
//   - leaderboard: standings by total points
//
// join_game remembers the name, so the other tools may omit it. A name
// passed explicitly always takes precedence. Over HTTP the name is kept per
// Mcp-Session-Id header; clients echo the id returned with their first
// response.
//
// The tools run on top of service.Commands. The HTTP server backs them with
// the in-process arena and mounts the server at /mcp; the "play" command
// backs them with a TCP client and serves stdio:
//
//	client, _ := tcp.Dial(ctx, "localhost:9999")
//	srv := mcp.NewServer(client, logger)
//	srv.ServeStdio()
package mcp
