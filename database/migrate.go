package database

import (
	"context"
	"fmt"
	"frietkot_server/database/migrations"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun/migrate"
)

// Migrator runs the embedded schema migrations.
type Migrator struct {
	logger   *gecho.Logger
	migrator *migrate.Migrator
}

func NewMigrator(db *DB, logger *gecho.Logger) *Migrator {
	return &Migrator{
		logger:   logger,
		migrator: migrate.NewMigrator(db.DB, migrations.Migrations),
	}
}

// Init creates the bookkeeping tables used by the migrator.
func (m *Migrator) Init(ctx context.Context) error {
	if err := m.migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialise migrations: %w", err)
	}
	return nil
}

// Up applies every pending migration as one group.
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.Init(ctx); err != nil {
		return err
	}
	if err := m.migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to lock migrations: %w", err)
	}
	defer m.migrator.Unlock(ctx) //nolint:errcheck

	group, err := m.migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if group.IsZero() {
		m.logger.Info("Database schema is up to date")
		return nil
	}

	m.logger.Info("Applied migrations", gecho.Field("group", group.String()))
	return nil
}

// Rollback reverts the last applied group.
func (m *Migrator) Rollback(ctx context.Context) error {
	if err := m.migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to lock migrations: %w", err)
	}
	defer m.migrator.Unlock(ctx) //nolint:errcheck

	group, err := m.migrator.Rollback(ctx)
	if err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	if group.IsZero() {
		m.logger.Info("There are no migrations to roll back")
		return nil
	}

	m.logger.Info("Rolled back migrations", gecho.Field("group", group.String()))
	return nil
}

// Status logs applied and pending migrations.
func (m *Migrator) Status(ctx context.Context) error {
	ms, err := m.migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	m.logger.Info("Migration status",
		gecho.Field("migrations", ms.String()),
		gecho.Field("unapplied", ms.Unapplied().String()),
		gecho.Field("last_group", ms.LastGroup().String()),
	)
	return nil
}
