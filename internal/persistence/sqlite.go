package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-helpdesk/internal/config"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLite wraps a sqlx handle on a local database file.
type SQLite struct {
	DB *sqlx.DB
}

// NewSQLite opens (and creates on first run) the database file at cfg.SQLitePath.
func NewSQLite(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*SQLite, error) {
	path := cfg.SQLitePath
	if path == "" {
		return nil, errors.New("sqlite path not provided")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// One connection serializes writers and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("opened sqlite database", zap.String("path", path))
	return &SQLite{DB: db}, nil
}

// Dialect implements MigrationTarget.
func (s *SQLite) Dialect() string { return config.DriverSQLite }

// ExecScript runs a migration script; go-sqlite3 executes every statement in it.
func (s *SQLite) ExecScript(ctx context.Context, script string) error {
	if s == nil || s.DB == nil {
		return errors.New("sqlite database not configured")
	}
	_, err := s.DB.ExecContext(ctx, script)
	return err
}

// Ping verifies the database is usable.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("sqlite database not configured")
	}
	return s.DB.PingContext(ctx)
}

// Close releases the handle.
func (s *SQLite) Close() {
	if s != nil && s.DB != nil {
		_ = s.DB.Close()
	}
}
