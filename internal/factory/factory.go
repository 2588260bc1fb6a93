package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/scoreboard/internal/dependencies/clock"
	"github.com/mcoot/scoreboard/internal/dependencies/random"
	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/auth"
	"github.com/mcoot/scoreboard/internal/services/credentials"
	"github.com/mcoot/scoreboard/internal/services/leaderboard"
	"github.com/mcoot/scoreboard/internal/services/ledger"
	"github.com/mcoot/scoreboard/internal/storage"
	"github.com/mcoot/scoreboard/internal/storage/memory"
	redisstorage "github.com/mcoot/scoreboard/internal/storage/redis"
	"github.com/mcoot/scoreboard/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeSQLite = "sqlite"
	StorageTypeMemory = "memory"
)

// Session backend constants
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage  storage.Storage
	Sessions storage.SessionStore

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	CredentialService  *credentials.Service
	AuthService        *auth.Service
	LedgerService      *ledger.Service
	LeaderboardService *leaderboard.Service

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Game selects the scoring profile
	// If empty, defaults to bike-race
	Game model.GameType
	// StorageType selects the record backend ("sqlite" or "memory")
	// If empty, defaults to "memory"
	StorageType string
	// DatabasePath is the SQLite file (required if StorageType is "sqlite")
	DatabasePath string
	// SessionBackend selects the session store ("memory" or "redis")
	// If empty, defaults to "memory"
	SessionBackend string
	// RedisConfig holds Redis connection settings (required if SessionBackend is "redis")
	RedisConfig *redisstorage.Config
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// CredentialConfig holds the password hashing settings (optional)
	CredentialConfig credentials.Config
	// LeaderboardConfig holds the default leaderboard size (optional)
	LeaderboardConfig leaderboard.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired.
// SQLite storage is migrated before New returns.
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	game := cfg.Game
	if game == "" {
		game = model.GameBikeRace
	}

	clk := clock.New()
	rnd := random.New()

	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	// Create record storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeSQLite:
		if cfg.DatabasePath == "" {
			return nil, errors.New("DatabasePath required when StorageType is sqlite")
		}
		db, err := sqlite.New(cfg.DatabasePath, logger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, db)
		if err := db.Migrate(ctx); err != nil {
			closeAll()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		store = db
	default:
		return nil, errors.New("invalid StorageType: must be 'sqlite' or 'memory'")
	}

	// Create session store based on backend
	var sessions storage.SessionStore
	backend := cfg.SessionBackend
	if backend == "" {
		backend = SessionBackendMemory
	}

	switch backend {
	case SessionBackendMemory:
		sessions = memory.NewSessionStore()
	case SessionBackendRedis:
		if cfg.RedisConfig == nil {
			closeAll()
			return nil, errors.New("RedisConfig required when SessionBackend is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig, clk)
		if err != nil {
			closeAll()
			return nil, err
		}
		closers = append(closers, redisStore)
		sessions = redisStore
	default:
		closeAll()
		return nil, errors.New("invalid SessionBackend: must be 'memory' or 'redis'")
	}

	app := newWithDependencies(store, sessions, clk, rnd, game, cfg.CredentialConfig, cfg.AuthConfig, cfg.LeaderboardConfig, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	sessions storage.SessionStore,
	clk clock.Clock,
	rnd random.Random,
	game model.GameType,
	credCfg credentials.Config,
	authCfg auth.Config,
	boardCfg leaderboard.Config,
	logger *slog.Logger,
) *App {
	credentialService := credentials.New(store, clk, credCfg, logger)
	authService := auth.New(credentialService, store, sessions, clk, rnd, authCfg, logger)
	ledgerService := ledger.New(store, clk, game, logger)
	leaderboardService := leaderboard.New(store, ledgerService, boardCfg, logger)

	return &App{
		Storage:            store,
		Sessions:           sessions,
		Clock:              clk,
		Random:             rnd,
		CredentialService:  credentialService,
		AuthService:        authService,
		LedgerService:      ledgerService,
		LeaderboardService: leaderboardService,
	}
}

// Close releases database and Redis connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
