package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	gdb "github.com/pressly/goose/v3/database"

	"seaway/pkg/config"
	"seaway/pkg/logger"
)

// Migrator applies schema migrations from an embedded filesystem.
type Migrator struct {
	pool       *pgxpool.Pool
	migrations embed.FS
	dir        string
}

// NewMigrator creates a migrator over the given pool.
func NewMigrator(pool *pgxpool.Pool, migrations embed.FS, dir string) *Migrator {
	return &Migrator{
		pool:       pool,
		migrations: migrations,
		dir:        dir,
	}
}

// withProvider runs fn against a goose provider scoped to this migrator.
// The provider API avoids goose's package-level state, so concurrent
// migrators over different schemas do not interfere.
func (m *Migrator) withProvider(fn func(p *goose.Provider) error) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer db.Close()

	fsys, err := fsSub(m.migrations, m.dir)
	if err != nil {
		return err
	}

	p, err := goose.NewProvider(gdb.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	return fn(p)
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	return m.withProvider(func(p *goose.Provider) error {
		results, err := p.Up(ctx)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		for _, r := range results {
			logger.Info("migration applied", "source", r.Source.Path, "duration", r.Duration)
		}
		return nil
	})
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	return m.withProvider(func(p *goose.Provider) error {
		result, err := p.Down(ctx)
		if err != nil {
			return fmt.Errorf("failed to rollback migration: %w", err)
		}
		logger.Info("migration rolled back", "source", result.Source.Path)
		return nil
	})
}

// Status logs the state of every known migration.
func (m *Migrator) Status(ctx context.Context) error {
	return m.withProvider(func(p *goose.Provider) error {
		statuses, err := p.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		for _, s := range statuses {
			logger.Info("migration status", "source", s.Source.Path, "state", s.State)
		}
		return nil
	})
}

// fsSub scopes the embedded filesystem to the migration directory, since
// the provider expects SQL files at its root.
func fsSub(fsys embed.FS, dir string) (fs.FS, error) {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("invalid migration dir %q: %w", dir, err)
	}
	return sub, nil
}

// RunMigrations applies migrations when auto-migration is configured on.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, cfg *config.DatabaseConfig, migrations embed.FS, dir string) error {
	if !cfg.AutoMigrate {
		logger.Info("auto-migration is disabled")
		return nil
	}

	migrator := NewMigrator(pool, migrations, dir)
	return migrator.Up(ctx)
}
