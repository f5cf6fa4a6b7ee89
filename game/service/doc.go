// Package service is the layer transports talk to.
//
// Commands holds the four player operations plus a text leaderboard; the TCP
// client and the in-process Arena both implement it, so the MCP adapter can
// run against either. Arena adds the snapshot projections the REST and
// WebSocket adapters need.
//
// Usage:
//
//	manager := session.NewManager(session.WithLogger(logger))
//	arena := service.NewArena(manager, logger)
//
//	msg, err := arena.Join(ctx, "alice")
//	if err != nil {
//		return err
//	}
package service
