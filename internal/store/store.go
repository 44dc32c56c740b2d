// Package store persists session attribute bags between requests.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jorgej/gimlet-skill-sub000/internal/session"
)

// Repository stores one attribute bag per user. Implementations serialize
// their own I/O only; callers are expected to deliver at most one request per
// user at a time.
type Repository interface {
	// GetAttributes returns the user's bag, or nil without error when the
	// user has none stored.
	GetAttributes(ctx context.Context, userID string) (session.Bag, error)

	// PutAttributes creates or replaces the user's bag.
	PutAttributes(ctx context.Context, userID string, bag session.Bag) error

	// DeleteAttributes removes the user's bag. Deleting a missing bag is not
	// an error.
	DeleteAttributes(ctx context.Context, userID string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}

// Drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Driver        string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open returns the repository for opts.Driver.
func Open(ctx context.Context, opts Options) (Repository, error) {
	switch strings.ToLower(opts.Driver) {
	case DriverSQLite, "":
		s, err := NewSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverRedis:
		s, err := NewRedis(ctx, RedisConfig{Addr: opts.RedisAddr, Password: opts.RedisPassword, DB: opts.RedisDB})
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}
