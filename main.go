package main

import (
	"context"
	"errors"
	"fmt"
	"frietkot_server/api"
	"frietkot_server/config"
	"frietkot_server/database"
	"frietkot_server/services"
	"frietkot_server/structs"
	"frietkot_server/views"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

var logger *gecho.Logger
var cfg *structs.Config

func main() {
	app := &cli.App{
		Name:   "frietkot",
		Usage:  "Frietkot menu and order administration",
		Before: setup,
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "manage the database schema",
				Subcommands: []*cli.Command{
					{Name: "init", Usage: "create the migration tables", Action: migrateAction((*database.Migrator).Init)},
					{Name: "up", Usage: "apply pending migrations", Action: migrateAction((*database.Migrator).Up)},
					{Name: "rollback", Usage: "roll back the last migration group", Action: migrateAction((*database.Migrator).Rollback)},
					{Name: "status", Usage: "show applied and pending migrations", Action: migrateAction((*database.Migrator).Status)},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		if logger != nil {
			logger.Fatal("Command failed", gecho.Field("error", err))
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the environment, configuration and logger before any command runs.
func setup(_ *cli.Context) error {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}
	return nil
}

func migrateAction(run func(*database.Migrator, context.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, err := database.Connect(cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		return run(database.NewMigrator(db, logger), c.Context)
	}
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", gecho.Field("error", err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.NewMigrator(db, logger).Up(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	storage, err := services.NewImageStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to set up image storage: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient = services.NewRedisClient(cfg.Cache)
	}

	sm := services.NewServiceManager(logger, cfg, db, storage, redisClient)

	if limiter := sm.RateLimitService; limiter != nil {
		defer func() {
			if err := limiter.Close(); err != nil {
				logger.Error("Failed to close redis client", gecho.Field("error", err))
			}
		}()
		if err := limiter.Ping(ctx); err != nil {
			// The rate limiter fails open, so the server can run without Redis.
			logger.Warn("Redis is not reachable, rate limiting will allow all requests", gecho.Field("error", err))
		}
	}

	renderer, err := views.NewRenderer(logger)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	localImages, _ := storage.(*services.LocalImageStorage)

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, logger, sm, renderer, localImages),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
