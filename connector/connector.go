// Package connector opens database connections from a Config. Drivers are
// registered as providers; pgx, postgres (lib/pq) and sqlite3 are built in.
package connector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Konsultn-Engineering/qbuild/database"
	"github.com/Konsultn-Engineering/qbuild/dialect"
	"github.com/Konsultn-Engineering/qbuild/internal/debug"
)

var ErrUnknownDriver = errors.New("unknown driver")

type Connection interface {
	DB() *sql.DB
	Database() database.Database
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

type Provider interface {
	Connect(ctx context.Context, config Config) (Connection, error)
	Dialect() dialect.Dialect
}

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register makes a provider available under name, replacing any previous
// registration.
func Register(name string, provider Provider) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = provider
}

func Lookup(name string) (Provider, error) {
	mu.RLock()
	defer mu.RUnlock()

	p, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
	return p, nil
}

// Drivers lists registered provider names.
func Drivers() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects with the provider named by cfg.Driver, retrying when
// cfg.Retry is set.
func Open(ctx context.Context, cfg Config) (Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	provider, err := Lookup(cfg.driver())
	if err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	connect := func(ctx context.Context) (Connection, error) {
		return provider.Connect(ctx, cfg)
	}
	if cfg.Retry == nil {
		debug.Debug("connecting", "driver", cfg.driver())
		return connect(ctx)
	}

	conn, err := retryConnect(ctx, *cfg.Retry, connect)
	if err != nil {
		return nil, fmt.Errorf("failed to connect after %d retries: %w", cfg.Retry.MaxRetries, err)
	}
	return conn, nil
}

func init() {
	Register("pgx", pgxProvider{})
	Register("postgres", sqlProvider{driver: "postgres", dialect: dialect.NewPostgresDialect()})
	Register("sqlite3", sqlProvider{driver: "sqlite3", dialect: dialect.NewSQLiteDialect()})
}
