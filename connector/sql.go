package connector

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Konsultn-Engineering/qbuild/database"
	"github.com/Konsultn-Engineering/qbuild/dialect"
	"github.com/Konsultn-Engineering/qbuild/internal/debug"
)

// sqlProvider connects through database/sql with a registered driver.
type sqlProvider struct {
	driver  string
	dialect dialect.Dialect
}

func (p sqlProvider) Dialect() dialect.Dialect { return p.dialect }

func (p sqlProvider) dsn(cfg Config) string {
	if p.driver == "sqlite3" {
		return SQLiteDSN(cfg)
	}
	return PostgresDSN(cfg)
}

// pool applies the pool defaults. An in-memory SQLite database lives only
// as long as its one connection, so that connection is never closed.
func (p sqlProvider) pool(cfg Config) PoolConfig {
	pool := cfg.Pool.withPoolDefaults()
	if p.driver == "sqlite3" && (cfg.Path == ":memory:" || cfg.Database == ":memory:") {
		pool.MaxOpen = 1
		pool.MaxIdle = 1
		pool.MaxLifetime = 0
		pool.MaxIdleTime = 0
	}
	return pool
}

func (p sqlProvider) Connect(ctx context.Context, cfg Config) (Connection, error) {
	db, err := sql.Open(p.driver, p.dsn(cfg))
	if err != nil {
		return nil, err
	}

	pool := p.pool(cfg)
	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(pool.MaxIdle)
	db.SetConnMaxLifetime(pool.MaxLifetime)
	db.SetConnMaxIdleTime(pool.MaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	var opts []database.SqlOption
	if cfg.StatementCache > 0 {
		opts = append(opts, database.WithStatementCache(cfg.StatementCache))
	}

	debug.Debug("connected", "driver", p.driver, "database", cfg.Database, "path", cfg.Path)
	return &sqlConnection{
		db:      db,
		dialect: p.dialect,
		wrapped: database.NewSqlDatabase(db, p.dialect, opts...),
	}, nil
}

type sqlConnection struct {
	db      *sql.DB
	dialect dialect.Dialect
	wrapped *database.SqlDatabase
}

func (c *sqlConnection) DB() *sql.DB                      { return c.db }
func (c *sqlConnection) Database() database.Database      { return c.wrapped }
func (c *sqlConnection) Dialect() dialect.Dialect         { return c.dialect }
func (c *sqlConnection) Health(ctx context.Context) error { return c.db.PingContext(ctx) }
func (c *sqlConnection) Stats() ConnectionStats           { return statsFromDB(c.db.Stats()) }

func (c *sqlConnection) Close() error {
	return c.wrapped.Close()
}
