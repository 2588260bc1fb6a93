package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/scoreboard/internal/api"
	"github.com/mcoot/scoreboard/internal/api/handler"
	"github.com/mcoot/scoreboard/internal/config"
	"github.com/mcoot/scoreboard/internal/factory"
	"github.com/mcoot/scoreboard/internal/services/auth"
	"github.com/mcoot/scoreboard/internal/services/credentials"
	"github.com/mcoot/scoreboard/internal/services/leaderboard"
	redisstorage "github.com/mcoot/scoreboard/internal/storage/redis"
)

func main() {
	cfg := &config.Config{}
	cobra.CheckErr(config.NewCommand(cfg, serve).Execute())
}

func serve(cmd *cobra.Command, cfg *config.Config) error {
	// Set up structured logging
	logger, err := cfg.NewLogger(os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build factory config
	factoryCfg := factory.Config{
		Game:              cfg.GameType(),
		StorageType:       factory.StorageTypeSQLite,
		DatabasePath:      cfg.DatabasePath(),
		SessionBackend:    cfg.SessionBackend,
		AuthConfig:        auth.Config{SessionDuration: cfg.SessionTTL},
		CredentialConfig:  credentials.Config{BcryptCost: cfg.BcryptCost},
		LeaderboardConfig: leaderboard.Config{Size: cfg.LeaderboardSize},
		Logger:            logger,
	}
	if cfg.SessionBackend == factory.SessionBackendRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.KeyPrefix = "scoreboard:" + cfg.Game
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory (opens and migrates the database)
	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close application", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		Game:               cfg.GameType(),
		CredentialService:  app.CredentialService,
		AuthService:        app.AuthService,
		LedgerService:      app.LedgerService,
		LeaderboardService: app.LeaderboardService,
		Health:             app.Storage,
		Cookie:             handler.CookieConfig{Secure: cfg.CookieSecure},
		TrustProxy:         cfg.TrustProxy,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Bind
	serverConfig.Port = cfg.Port
	serverConfig.ShutdownTimeout = cfg.ShutdownTimeout
	server := api.NewServer(router, serverConfig, logger)

	go sweepSessions(ctx, app.AuthService, cfg.SessionSweepInterval, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("game", cfg.Game),
		slog.String("database", cfg.DatabasePath()),
		slog.String("session_backend", cfg.SessionBackend),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

// sweepSessions removes expired sessions every interval until ctx is done
func sweepSessions(ctx context.Context, authService *auth.Service, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := authService.CleanExpiredSessions(ctx); err != nil {
				logger.Warn("session sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}
