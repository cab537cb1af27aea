//go:build integration

package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Konsultn-Engineering/qbuild/ast"
	"github.com/Konsultn-Engineering/qbuild/dialect"
)

const partnerTable = `CREATE TABLE IF NOT EXISTS res_partner (
	id serial PRIMARY KEY,
	name text NOT NULL UNIQUE,
	credit numeric NOT NULL DEFAULT 0,
	active boolean NOT NULL DEFAULT true
)`

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("qbuild"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func exerciseDML(t *testing.T, db Database) {
	t.Helper()
	ctx := context.Background()
	exec := NewExecutor(db)
	p := ast.MustRow("res_partner")

	_, err := db.ExecContext(ctx, partnerTable)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "TRUNCATE res_partner")
	require.NoError(t, err)

	ins := ast.MustInsert(p, "name", "credit").
		Rows([]any{"alice", 10}, []any{"bob", 20}, []any{"carol", 30}).
		Returning(p.C("id"))
	rows, err := exec.Query(ctx, ins)
	require.NoError(t, err)
	var ids []int64
	for rows.Next() {
		var id int64
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())
	assert.Len(t, ids, 3)

	upd := ast.MustUpdate(ast.Set(p.C("credit"), ast.Add(p.C("credit"), 5))).
		Where(ast.MustIn(p.C("name"), "alice", "bob"))
	res, err := exec.Exec(ctx, upd)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.RowsAffected)

	dup, err := exec.Exec(ctx, ast.MustInsert(p, "name").Values("carol").OnConflictDoNothing())
	require.NoError(t, err)
	assert.EqualValues(t, 0, dup.RowsAffected)

	_, err = exec.Exec(ctx, ast.MustUpdate(ast.Set(p.C("active"), false)).Where(ast.Eq(p.C("name"), "carol")))
	require.NoError(t, err)

	got, err := exec.QueryMaps(ctx, ast.NewSelect(ast.As("name", p.C("name"))).
		Where(ast.Eq(p.C("active"), true)).
		OrderBy(p.C("name")))
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"name": "alice"}, {"name": "bob"}}, got)

	del := ast.MustDelete(p).Where(ast.Eq(p.C("id"), ast.Any(ids)))
	res, err = exec.Exec(ctx, del)
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.RowsAffected)
}

func TestPostgresPgx(t *testing.T) {
	dsn := startPostgres(t)
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)

	db := NewPgxDatabase(pool)
	t.Cleanup(func() { _ = db.Close() })
	exerciseDML(t, db)
}

func TestPostgresLibPQ(t *testing.T) {
	dsn := startPostgres(t)
	raw, err := sql.Open("postgres", dsn)
	require.NoError(t, err)

	db := NewSqlDatabase(raw, dialect.NewPostgresDialect(), WithStatementCache(16))
	t.Cleanup(func() { _ = db.Close() })
	exerciseDML(t, db)
}
