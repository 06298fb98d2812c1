package kv

import (
	"context"
	"fmt"

	"github.com/claude/pintrack/internal/config"
)

// Open connects the configured backend. Postgres migrations are applied
// before the pool is created. The returned func releases the backend.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), func() {}, nil
	case config.BackendPostgres:
		dsn := cfg.Postgres.DSN()
		if err := RunMigrations(dsn); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		db, err := NewPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.BackendSQLite:
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
