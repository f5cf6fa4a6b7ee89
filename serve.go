package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/tronarena/api"
	"github.com/wricardo/mcp-training/tronarena/game/events"
	"github.com/wricardo/mcp-training/tronarena/game/service"
	"github.com/wricardo/mcp-training/tronarena/game/session"
	"github.com/wricardo/mcp-training/tronarena/internal/config"
	"github.com/wricardo/mcp-training/tronarena/internal/observability"
	"github.com/wricardo/mcp-training/tronarena/transport/mcp"
	"github.com/wricardo/mcp-training/tronarena/transport/natsbridge"
	"github.com/wricardo/mcp-training/tronarena/transport/tcp"
	"github.com/wricardo/mcp-training/tronarena/transport/websocket"
)

const shutdownTimeout = 10 * time.Second

// openStore returns the configured store and a function releasing it. The
// "none" driver yields a nil store.
func openStore(cfg config.StorageConfig) (session.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Driver {
	case "file":
		store, err := session.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); cfg.SQLitePath != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, fmt.Errorf("failed to create storage directory: %w", err)
			}
		}
		store, err := session.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "none":
		return nil, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ticker is the part of *session.Manager driven by the tick loop.
type ticker interface {
	TickAll(ctx context.Context)
}

// runTicker calls TickAll every interval until ctx is cancelled.
func runTicker(ctx context.Context, t ticker, interval time.Duration) {
	tk := time.NewTicker(interval)
	defer tk.Stop()
	for {
		select {
		case <-tk.C:
			t.TickAll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// newManager wires the session manager from configuration and loads the
// persisted leaderboard and archive.
func newManager(ctx context.Context, cfg config.Config, store session.Store, broker *events.Broker, logger *zap.Logger) (*session.Manager, error) {
	catalog, err := buildCatalog(cfg.Game)
	if err != nil {
		return nil, err
	}

	opts := []session.Option{
		session.WithCatalog(catalog),
		session.WithLogger(logger.Named("session")),
		session.WithBroker(broker),
		session.WithLeaderboardSize(cfg.Game.LeaderboardSize),
		session.WithArchiveSize(cfg.Game.ArchiveSize),
		session.WithLookRadius(cfg.Game.LookRadius),
	}
	if store != nil {
		opts = append(opts, session.WithStore(store))
	}

	m := session.NewManager(opts...)
	m.Load(ctx)
	return m, nil
}

// runServe runs the game server until ctx is cancelled or a listener fails.
func runServe(ctx context.Context, cfg config.Config) error {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.String("app", AppName),
		zap.String("version", Version),
		zap.String("storage", cfg.Storage.Driver))

	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	broker := events.NewBroker(cfg.Events.Buffer)
	defer broker.Close()

	manager, err := newManager(ctx, cfg, store, broker, logger)
	if err != nil {
		return err
	}
	arena := service.NewArena(manager, logger.Named("arena"))

	var bridge *natsbridge.Bridge
	if cfg.Events.NATSURL != "" {
		nc, err := natsbridge.Connect(cfg.Events.NATSURL, logger.Named("nats"))
		if err != nil {
			return err
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				logger.Warn("nats drain failed", zap.Error(err))
			}
		}()
		bridge = natsbridge.New(nc, cfg.Events.NATSSubject, logger.Named("nats"))
		logger.Info("publishing events to nats",
			zap.String("url", cfg.Events.NATSURL),
			zap.String("subject", bridge.Subject(">")))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 3)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runTicker(ctx, manager, cfg.Server.TickInterval)
	}()

	hub := websocket.NewHub(logger.Named("ws"))
	wg.Add(2)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		hub.Forward(ctx, arena.Subscribe())
	}()

	if bridge != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bridge.Run(ctx, arena.Subscribe())
		}()
	}

	tcpServer := tcp.NewServer(cfg.Server.TCPAddr, arena, logger.Named("tcp"))
	go func() {
		if err := tcpServer.ListenAndServe(); err != nil {
			errCh <- fmt.Errorf("tcp server: %w", err)
		}
	}()

	mcpServer := mcp.NewServer(arena, logger.Named("mcp"))
	apiServer := api.NewServer(arena, hub, mcpServer, logger.Named("http"))
	// No write timeout: /ws and /api/stream hold the response open.
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           apiServer,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.Server.HTTPAddr),
			zap.String("rest", "/api"),
			zap.String("websocket", "/ws"),
			zap.String("mcp", "/mcp"))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cfg.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cfg.Ngrok, apiServer, logger.Named("ngrok"))
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
		logger.Error("server failed, shutting down", zap.Error(runErr))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown error", zap.Error(err))
	}
	tcpServer.Stop()

	wg.Wait()
	logger.Info("server stopped")
	return runErr
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled.
func runNgrok(ctx context.Context, cfg config.NgrokConfig, handler http.Handler, logger *zap.Logger) {
	var tunnel ngrokConfig.Tunnel
	if cfg.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.Domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	srv := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	url := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", url),
		zap.String("rest", url+"/api"),
		zap.String("mcp", url+"/mcp"))

	if err := srv.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}
