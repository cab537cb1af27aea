package connector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/Konsultn-Engineering/qbuild/database"
	"github.com/Konsultn-Engineering/qbuild/dialect"
	"github.com/Konsultn-Engineering/qbuild/internal/debug"
)

// pgxProvider connects through a pgxpool.Pool.
type pgxProvider struct{}

func (pgxProvider) Dialect() dialect.Dialect { return dialect.NewPostgresDialect() }

func (pgxProvider) Connect(ctx context.Context, cfg Config) (Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(PostgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}

	pool := cfg.Pool.withPoolDefaults()
	poolCfg.MaxConns = int32(pool.MaxOpen)
	poolCfg.MinConns = int32(min(pool.MaxIdle, pool.MaxOpen))
	poolCfg.MaxConnLifetime = pool.MaxLifetime
	poolCfg.MaxConnIdleTime = pool.MaxIdleTime

	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, err
	}

	debug.Debug("connected", "driver", "pgx", "host", cfg.Host, "database", cfg.Database)
	return &pgxConnection{pool: p}, nil
}

type pgxConnection struct {
	pool *pgxpool.Pool
	db   *sql.DB
}

// DB returns a database/sql handle sharing the pool.
func (c *pgxConnection) DB() *sql.DB {
	if c.db == nil {
		c.db = stdlib.OpenDBFromPool(c.pool)
	}
	return c.db
}

func (c *pgxConnection) Database() database.Database {
	return database.NewPgxDatabase(c.pool)
}

func (c *pgxConnection) Dialect() dialect.Dialect { return dialect.NewPostgresDialect() }

func (c *pgxConnection) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *pgxConnection) Stats() ConnectionStats {
	s := c.pool.Stat()
	return ConnectionStats{
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
	}
}

func (c *pgxConnection) Close() error {
	if c.db != nil {
		_ = c.db.Close()
	}
	c.pool.Close()
	return nil
}
