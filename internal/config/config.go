// Package config loads score server settings from flags and SCOREBOARD_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/scoreboard/internal/model"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "SCOREBOARD"

// Config holds server configuration
type Config struct {
	Bind                 string
	Port                 int
	Game                 string
	Database             string
	SessionBackend       string
	RedisURL             string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	BcryptCost           int
	LeaderboardSize      int
	CookieSecure         bool
	TrustProxy           bool
	LogLevel             string
	LogFormat            string
	ShutdownTimeout      time.Duration
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if _, err := model.ParseGameType(c.Game); err != nil {
		return err
	}
	switch c.SessionBackend {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return errors.New("--redis-url is required when --session-backend is redis")
		}
	default:
		return fmt.Errorf("invalid session backend %q (must be memory or redis)", c.SessionBackend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid session ttl (must be positive): %s", c.SessionTTL)
	}
	if c.SessionSweepInterval <= 0 {
		return fmt.Errorf("invalid session sweep interval (must be positive): %s", c.SessionSweepInterval)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("invalid bcrypt cost (must be between %d-%d inclusive): %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.LeaderboardSize < 1 {
		return fmt.Errorf("invalid leaderboard size (must be at least 1): %d", c.LeaderboardSize)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid log format %q (must be json or text)", c.LogFormat)
	}
	return nil
}

// GameType returns the configured game. Call Validate first.
func (c *Config) GameType() model.GameType {
	return model.GameType(c.Game)
}

// DatabasePath returns the SQLite file, defaulting to one file per game
func (c *Config) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return c.Game + ".db"
}

// NewLogger builds the structured logger described by LogLevel and LogFormat
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q (must be debug, info, warn or error)", s)
	}
	return level, nil
}

// NewCommand creates the server command. Flags default from SCOREBOARD_*
// environment variables; explicit flags win. run is called with the
// validated configuration.
func NewCommand(cfg *Config, run func(cmd *cobra.Command, cfg *Config) error) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "scoreboard",
		Short: "Score and leaderboard server for arcade games",
		Long: `scoreboard serves account registration, session login, score submission
and a leaderboard for one game over HTTP.

Each instance serves a single game (bike-race or snake) backed by its own
SQLite database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: SCOREBOARD_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 8080, "port to listen on (env: SCOREBOARD_PORT)")
	fs.StringVarP(&cfg.Game, "game", "g", string(model.GameBikeRace), "game served by this instance: bike-race or snake (env: SCOREBOARD_GAME)")
	fs.StringVar(&cfg.Database, "database", "", "SQLite database file, defaults to <game>.db (env: SCOREBOARD_DATABASE)")
	fs.StringVar(&cfg.SessionBackend, "session-backend", "memory", "session store: memory or redis (env: SCOREBOARD_SESSION_BACKEND)")
	fs.StringVar(&cfg.RedisURL, "redis-url", "", "redis URL for the redis session backend (env: SCOREBOARD_REDIS_URL)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 24*time.Hour, "lifetime of a login session (env: SCOREBOARD_SESSION_TTL)")
	fs.DurationVar(&cfg.SessionSweepInterval, "session-sweep-interval", 10*time.Minute, "how often expired sessions are removed (env: SCOREBOARD_SESSION_SWEEP_INTERVAL)")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", bcrypt.DefaultCost, "bcrypt work factor for new passwords (env: SCOREBOARD_BCRYPT_COST)")
	fs.IntVar(&cfg.LeaderboardSize, "leaderboard-size", 10, "number of entries on the leaderboard (env: SCOREBOARD_LEADERBOARD_SIZE)")
	fs.BoolVar(&cfg.CookieSecure, "cookie-secure", false, "mark the session cookie Secure (env: SCOREBOARD_COOKIE_SECURE)")
	fs.BoolVar(&cfg.TrustProxy, "trust-proxy", false, "take client IPs from X-Forwarded-For (env: SCOREBOARD_TRUST_PROXY)")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn or error (env: SCOREBOARD_LOG_LEVEL)")
	fs.StringVar(&cfg.LogFormat, "log-format", "json", "log format: json or text (env: SCOREBOARD_LOG_FORMAT)")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 30*time.Second, "grace period for in-flight requests on shutdown (env: SCOREBOARD_SHUTDOWN_TIMEOUT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
