package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/tronarena/internal/config"
	"github.com/wricardo/mcp-training/tronarena/internal/observability"
	"github.com/wricardo/mcp-training/tronarena/transport/mcp"
	"github.com/wricardo/mcp-training/tronarena/transport/tcp"
)

// runPlay serves the MCP tools on stdio, relaying every call to the game
// server at addr.
func runPlay(ctx context.Context, cfg config.Config, addr string) error {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, err := tcp.Dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("game server unavailable: %w", err)
	}
	defer client.Close()

	logger.Info("mcp stdio server ready", zap.String("server", addr))
	return mcp.NewServer(client, logger.Named("mcp")).ServeStdio()
}
