// Command tron runs the light-cycle arena.
//
// It has three subcommands:
//  1. "serve" – runs the game: the tick loop, the TCP command server and the
//     HTTP server exposing REST, WebSocket, server-sent events and an /mcp endpoint
//  2. "play" – runs an MCP stdio server that relays tool calls to a game
//     server over TCP, for LLM agents
//  3. "courses" – prints the course catalog
//
// Configuration comes from defaults, an optional YAML file (--config),
// TRON_* environment variables (a .env file is loaded first) and flags, in
// increasing order of precedence.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/tronarena/game/course"
	"github.com/wricardo/mcp-training/tronarena/internal/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Tron Light-Cycle Arena"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "tron",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML configuration file",
				Sources: cli.EnvVars("TRON_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "json or console",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			playCommand(),
			coursesCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the game server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "http-addr", Usage: "HTTP listen address"},
			&cli.StringFlag{Name: "tcp-addr", Usage: "TCP command server listen address"},
			&cli.DurationFlag{Name: "tick", Usage: "game tick interval"},
			&cli.StringFlag{Name: "storage", Usage: "storage driver: file, sqlite or none"},
			&cli.StringFlag{Name: "courses-dir", Usage: "directory of extra YAML courses"},
			&cli.StringFlag{Name: "nats-url", Usage: "publish arena events to this NATS server"},
			&cli.BoolFlag{Name: "ngrok", Usage: "expose the HTTP server through an ngrok tunnel"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(ctx, cfg)
		},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Connect to a game server as an MCP player over stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Usage: "game server TCP address",
				Value: "127.0.0.1:9999",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runPlay(ctx, cfg, cmd.String("server"))
		},
	}
}

func coursesCommand() *cli.Command {
	return &cli.Command{
		Name:  "courses",
		Usage: "List the course catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "courses-dir", Usage: "directory of extra YAML courses"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			catalog, err := buildCatalog(cfg.Game)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.Root().Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LEVEL\tNAME\tSIZE\tTRAIL\tPLAYERS\tWALLS\tOBSTRUCTIONS")
			for _, c := range catalog.All() {
				fmt.Fprintf(w, "%d\t%s\t%dx%d\t%d\t%d\t%d\t%d\n",
					c.Level, c.Name, c.Width, c.Height, c.MaxTrailLength, c.MaxPlayers, len(c.Walls), len(c.Obstructions))
			}
			return w.Flush()
		},
	}
}

// loadConfig layers flag values over the file and environment configuration.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	root := cmd.Root()
	v, err := config.New(root.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if root.IsSet("log-level") {
		v.Set("logging.level", root.String("log-level"))
	}
	if root.IsSet("log-format") {
		v.Set("logging.format", root.String("log-format"))
	}

	overrides := map[string]string{
		"http-addr":   "server.http_addr",
		"tcp-addr":    "server.tcp_addr",
		"storage":     "storage.driver",
		"courses-dir": "game.courses_dir",
		"nats-url":    "events.nats_url",
	}
	for flag, key := range overrides {
		if cmd.IsSet(flag) {
			v.Set(key, cmd.String(flag))
		}
	}
	if cmd.IsSet("tick") {
		v.Set("server.tick_interval", cmd.Duration("tick"))
	}
	if cmd.IsSet("ngrok") {
		v.Set("ngrok.enabled", cmd.Bool("ngrok"))
	}

	// The ngrok agent's own variable names are honored too.
	if v.GetString("ngrok.authtoken") == "" {
		for _, name := range []string{"NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"} {
			if token := os.Getenv(name); token != "" {
				v.Set("ngrok.authtoken", token)
				break
			}
		}
	}

	return config.LoadFromViper(v)
}

// buildCatalog returns the built-in courses followed by those found in
// cfg.CoursesDir. A zero seed is replaced by the clock.
func buildCatalog(cfg config.GameConfig) (*course.Catalog, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var extra []course.Course
	if cfg.CoursesDir != "" {
		loaded, err := course.LoadDir(cfg.CoursesDir)
		if err != nil {
			return nil, fmt.Errorf("loading courses: %w", err)
		}
		extra = loaded
	}
	return course.NewCatalog(seed, extra...)
}
