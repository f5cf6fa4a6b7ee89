// Package config provides Viper-based configuration loading for the arena
// server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// TRON_SERVER_TCP_ADDR.
const EnvPrefix = "TRON"

// ServerConfig holds listener settings.
type ServerConfig struct {
	HTTPAddr     string        `mapstructure:"http_addr"`
	TCPAddr      string        `mapstructure:"tcp_addr"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

// GameConfig holds matchmaking and catalog settings.
type GameConfig struct {
	LookRadius      int `mapstructure:"look_radius"`
	LeaderboardSize int `mapstructure:"leaderboard_size"`
	ArchiveSize     int `mapstructure:"archive_size"`
	// Seed drives the random course; 0 seeds from the clock.
	Seed int64 `mapstructure:"seed"`
	// CoursesDir holds extra YAML courses appended after the built-ins.
	CoursesDir string `mapstructure:"courses_dir"`
}

// StorageConfig selects where the leaderboard and archive live.
type StorageConfig struct {
	// Driver is "file", "sqlite" or "none".
	Driver     string `mapstructure:"driver"`
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// EventsConfig holds broker settings and the optional NATS forwarder.
type EventsConfig struct {
	Buffer      int    `mapstructure:"buffer"`
	NATSURL     string `mapstructure:"nats_url"`
	NATSSubject string `mapstructure:"nats_subject"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// NgrokConfig enables a public tunnel in front of the HTTP listener.
type NgrokConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	AuthToken string `mapstructure:"authtoken"`
	Domain    string `mapstructure:"domain"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Game    GameConfig    `mapstructure:"game"`
	Storage StorageConfig `mapstructure:"storage"`
	Events  EventsConfig  `mapstructure:"events"`
	Logging LoggingConfig `mapstructure:"logging"`
	Ngrok   NgrokConfig   `mapstructure:"ngrok"`
}

// Validate checks all configuration invariants and reports every violation.
func (c Config) Validate() error {
	var errs []string

	if c.Server.HTTPAddr == "" {
		errs = append(errs, "server.http_addr must not be empty")
	}
	if c.Server.TCPAddr == "" {
		errs = append(errs, "server.tcp_addr must not be empty")
	}
	if c.Server.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("server.tick_interval must be positive, got %s", c.Server.TickInterval))
	}

	if c.Game.LookRadius < 1 {
		errs = append(errs, fmt.Sprintf("game.look_radius must be >= 1, got %d", c.Game.LookRadius))
	}
	if c.Game.LeaderboardSize < 1 {
		errs = append(errs, fmt.Sprintf("game.leaderboard_size must be >= 1, got %d", c.Game.LeaderboardSize))
	}
	if c.Game.ArchiveSize < 1 {
		errs = append(errs, fmt.Sprintf("game.archive_size must be >= 1, got %d", c.Game.ArchiveSize))
	}

	switch c.Storage.Driver {
	case "file":
		if c.Storage.Dir == "" {
			errs = append(errs, "storage.dir must not be empty for the file driver")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			errs = append(errs, "storage.sqlite_path must not be empty for the sqlite driver")
		}
	case "none":
	default:
		errs = append(errs, fmt.Sprintf("storage.driver must be one of [file, sqlite, none], got %q", c.Storage.Driver))
	}

	if c.Events.Buffer < 1 {
		errs = append(errs, fmt.Sprintf("events.buffer must be >= 1, got %d", c.Events.Buffer))
	}
	if c.Events.NATSURL != "" && c.Events.NATSSubject == "" {
		errs = append(errs, "events.nats_subject must not be empty when events.nats_url is set")
	}

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if c.Ngrok.Enabled && c.Ngrok.AuthToken == "" {
		errs = append(errs, "ngrok.authtoken is required when ngrok is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// New returns a Viper instance with defaults and TRON_ environment overrides
// applied. When path is not empty the file is read as well.
func New(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return v, nil
}

// Load reads the optional configuration file, applies environment overrides
// and validates the result.
func Load(path string) (Config, error) {
	v, err := New(path)
	if err != nil {
		return Config{}, err
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_addr", ":3000")
	v.SetDefault("server.tcp_addr", ":9999")
	v.SetDefault("server.tick_interval", "500ms")

	v.SetDefault("game.look_radius", 7)
	v.SetDefault("game.leaderboard_size", 20)
	v.SetDefault("game.archive_size", 100)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.courses_dir", "")

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.dir", "data")
	v.SetDefault("storage.sqlite_path", "data/tron.db")

	v.SetDefault("events.buffer", 256)
	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.nats_subject", "tron.events")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("ngrok.enabled", false)
	v.SetDefault("ngrok.authtoken", "")
	v.SetDefault("ngrok.domain", "")
}
