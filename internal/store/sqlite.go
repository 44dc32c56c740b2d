package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jorgej/gimlet-skill-sub000/internal/metrics"
	"github.com/jorgej/gimlet-skill-sub000/internal/session"
	_ "modernc.org/sqlite"
)

const (
	busyRetries   = 3
	busyBaseDelay = 100 * time.Millisecond
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS skill_attributes (
		user_id TEXT PRIMARY KEY,
		attributes_json TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_skill_attributes_updated ON skill_attributes(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetAttributes retrieves the attribute bag for a user.
func (s *SQLiteStore) GetAttributes(ctx context.Context, userID string) (session.Bag, error) {
	query := `SELECT attributes_json FROM skill_attributes WHERE user_id = ?`

	var raw string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("scan attributes: %w", err)
	}

	bag, err := session.ParseBag([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("decode attributes for %s: %w", userID, err)
	}
	return bag, nil
}

// PutAttributes creates or replaces the attribute bag for a user.
func (s *SQLiteStore) PutAttributes(ctx context.Context, userID string, bag session.Bag) error {
	data, err := bag.Encode()
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}

	query := `
	INSERT INTO skill_attributes (user_id, attributes_json, created_at, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		attributes_json = excluded.attributes_json,
		updated_at = excluded.updated_at`

	now := time.Now().Unix()
	err = retryBusy(ctx, "put", userID, func() error {
		_, err := s.db.ExecContext(ctx, query, userID, string(data), now, now)
		return err
	})
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("put").Inc()
		return fmt.Errorf("upsert attributes: %w", err)
	}
	return nil
}

// DeleteAttributes removes the attribute bag for a user.
func (s *SQLiteStore) DeleteAttributes(ctx context.Context, userID string) error {
	err := retryBusy(ctx, "delete", userID, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM skill_attributes WHERE user_id = ?`, userID)
		return err
	})
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("delete").Inc()
		return fmt.Errorf("delete attributes: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// isBusy reports whether err is a SQLite lock conflict worth retrying.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryBusy runs op, retrying lock conflicts with exponential backoff
// (100ms, 200ms).
func retryBusy(ctx context.Context, op, userID string, fn func() error) error {
	var err error
	for i := 0; i < busyRetries; i++ {
		err = fn()
		if !isBusy(err) || i == busyRetries-1 {
			break
		}
		delay := busyBaseDelay * time.Duration(1<<i)
		slog.Debug("sqlite busy, retrying", "op", op, "user_id", userID, "attempt", i+1, "delay", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil && isBusy(err) {
		return fmt.Errorf("after %d attempts: %w", busyRetries, err)
	}
	return err
}
