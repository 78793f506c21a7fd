package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"frietkot_server/structs"
	"io"
	"net/url"
	"time"

	"github.com/MonkyMars/gecho"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DB wraps the bun database handle with additional functionality
type DB struct {
	*bun.DB
}

// DSN builds the connection string, preferring an explicit URL.
func DSN(cfg *structs.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Open creates the pooled handle without touching the network.
func Open(cfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	dsn := DSN(cfg)

	var sqldb *sql.DB
	switch cfg.Driver {
	case "pgx":
		var err error
		sqldb, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open pgx connection: %w", err)
		}
	case "", "pg":
		sqldb = sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(dsn),
			pgdriver.WithReadTimeout(cfg.ReadTimeout),
			pgdriver.WithWriteTimeout(cfg.WriteTimeout),
		))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	// Apply pool settings from configuration
	sqldb.SetMaxOpenConns(cfg.MaxConns)
	sqldb.SetMaxIdleConns(cfg.MinConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.MaxIdleTime)

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(&connectionHealthHook{logger: logger, threshold: cfg.SlowQueryThreshold})

	return &DB{db}, nil
}

// Connect opens the pool and verifies the connection
func Connect(cfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	db, err := Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully", gecho.Field("driver", driverName(cfg.Driver)))

	return db, nil
}

func driverName(driver string) string {
	if driver == "" {
		return "pg"
	}
	return driver
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Health checks the database connection health
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

// connectionHealthHook implements bun.QueryHook to monitor query latency and dropped connections
type connectionHealthHook struct {
	logger    *gecho.Logger
	threshold time.Duration
}

func (h *connectionHealthHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *connectionHealthHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	if h.threshold > 0 && duration > h.threshold {
		h.logger.Warn("Slow database query detected",
			gecho.Field("query", event.Query),
			gecho.Field("duration", duration),
		)
	}

	if event.Err != nil && (errors.Is(event.Err, io.EOF) || errors.Is(event.Err, io.ErrUnexpectedEOF)) {
		h.logger.Error("Database connection EOF error - connection may have been closed by server",
			gecho.Field("error", event.Err),
			gecho.Field("query", event.Query),
		)
	}
}
