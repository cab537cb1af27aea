package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/qbuild/ast"
	"github.com/Konsultn-Engineering/qbuild/dialect"
)

type recordingDB struct {
	dialect  dialect.Dialect
	query    string
	args     []any
	affected int64
	err      error
}

func (r *recordingDB) QueryContext(_ context.Context, query string, args ...any) (Rows, error) {
	r.query, r.args = query, args
	return nil, r.err
}

func (r *recordingDB) ExecContext(_ context.Context, query string, args ...any) (Result, error) {
	r.query, r.args = query, args
	if r.err != nil {
		return nil, r.err
	}
	return recordedResult(r.affected), nil
}

func (r *recordingDB) PingContext(context.Context) error { return nil }
func (r *recordingDB) Close() error                      { return nil }
func (r *recordingDB) Dialect() dialect.Dialect          { return r.dialect }

type recordedResult int64

func (n recordedResult) LastInsertId() (int64, error) { return 0, ErrNotSupported }
func (n recordedResult) RowsAffected() (int64, error) { return int64(n), nil }

func TestPrepareRebindsForDialect(t *testing.T) {
	p := ast.MustRow("res_partner")
	stmt := ast.NewSelect(p.C("id")).
		Where(ast.And(ast.MustIn(p.C("id"), 1, 2, 3), ast.Eq(p.C("name"), "x")))

	tests := []struct {
		name    string
		dialect dialect.Dialect
		want    string
	}{
		{
			"postgres",
			dialect.NewPostgresDialect(),
			`SELECT "a"."id" FROM "res_partner" "a" WHERE (("a"."id" IN ($1, $2, $3)) AND ("a"."name" = $4))`,
		},
		{
			"sqlite",
			dialect.NewSQLiteDialect(),
			`SELECT "a"."id" FROM "res_partner" "a" WHERE (("a"."id" IN (?, ?, ?)) AND ("a"."name" = ?))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := NewExecutor(&recordingDB{dialect: tt.dialect})
			prepared, err := exec.Prepare(stmt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, prepared.SQL)
			assert.Equal(t, []any{1, 2, 3, "x"}, prepared.Args)
		})
	}
}

func TestPrepareAssignsIncreasingIDs(t *testing.T) {
	exec := NewExecutor(&recordingDB{dialect: dialect.NewPostgresDialect()})
	stmt := ast.MustDelete(ast.MustRow("res_partner"))

	first, err := exec.Prepare(stmt)
	require.NoError(t, err)
	second, err := exec.Prepare(stmt)
	require.NoError(t, err)

	assert.Equal(t, -1, first.ID.Compare(second.ID))
}

func TestExecReportsRowsAffected(t *testing.T) {
	db := &recordingDB{dialect: dialect.NewPostgresDialect(), affected: 4}
	exec := NewExecutor(db)
	p := ast.MustRow("res_partner")

	res, err := exec.Exec(context.Background(), ast.MustDelete(p).Where(ast.Gt(p.C("id"), 5)))
	require.NoError(t, err)
	assert.EqualValues(t, 4, res.RowsAffected)
	assert.Equal(t, `DELETE FROM "res_partner" "a" WHERE ("a"."id" > $1)`, db.query)
	assert.Equal(t, []any{5}, db.args)
}

func TestExecWrapsDriverErrors(t *testing.T) {
	boom := errors.New("boom")
	exec := NewExecutor(&recordingDB{dialect: dialect.NewPostgresDialect(), err: boom})

	_, err := exec.Exec(context.Background(), ast.MustDelete(ast.MustRow("res_partner")))
	assert.ErrorIs(t, err, boom)
}

func TestPrepareRejectsNilStatement(t *testing.T) {
	exec := NewExecutor(&recordingDB{dialect: dialect.NewPostgresDialect()})
	_, err := exec.Prepare(nil)
	assert.ErrorIs(t, err, ast.ErrInvalidOperand)
}

func TestConvertArgsWrapsSlicesForPostgres(t *testing.T) {
	pg := NewSqlDatabase(nil, dialect.NewPostgresDialect())
	args := []any{[]string{"a", "b"}, []byte("raw"), 7}

	out := pg.convertArgs(args)
	assert.IsType(t, (*pq.StringArray)(nil), out[0])
	assert.Equal(t, []byte("raw"), out[1])
	assert.Equal(t, 7, out[2])
	assert.IsType(t, []string{}, args[0])

	lite := NewSqlDatabase(nil, dialect.NewSQLiteDialect())
	assert.Equal(t, args, lite.convertArgs(args))
}

func openSQLite(t *testing.T, opts ...SqlOption) *SqlDatabase {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	sdb := NewSqlDatabase(db, dialect.NewSQLiteDialect(), opts...)
	t.Cleanup(func() { _ = sdb.Close() })

	_, err = sdb.ExecContext(context.Background(),
		`CREATE TABLE "items" ("id" INTEGER PRIMARY KEY, "name" TEXT, "price" REAL)`)
	require.NoError(t, err)
	return sdb
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	exec := NewExecutor(openSQLite(t, WithStatementCache(8)))
	items := ast.MustRow("items")

	ins := ast.MustInsert(items, "name", "price").Rows(
		[]any{"apple", 1.5},
		[]any{"pear", 2.0},
		[]any{"plum", nil},
	)
	res, err := exec.Exec(ctx, ins)
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.RowsAffected)

	sel := ast.NewSelect(items.C("name")).
		Where(ast.MustIn(items.C("name"), "apple", "plum")).
		OrderBy(ast.Asc(items.C("name")))
	got, err := exec.QueryMaps(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"name": "apple"}, {"name": "plum"}}, got)

	rows, err := exec.Query(ctx, ast.NewSelect(ast.Count(items)).Where(ast.IsNull(items.C("price"))))
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var n int64
	require.NoError(t, rows.Scan(&n))
	assert.EqualValues(t, 1, n)
	assert.False(t, rows.Next())
	assert.NoError(t, rows.Err())
}

func TestSQLiteLimitOffset(t *testing.T) {
	ctx := context.Background()
	exec := NewExecutor(openSQLite(t))
	items := ast.MustRow("items")

	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := exec.Exec(ctx, ast.MustInsert(items, "name").Values(name))
		require.NoError(t, err)
	}

	page := ast.NewSelect(items.C("name")).OrderBy(ast.Desc(items.C("name"))).Limit(2).Offset(1)
	got, err := exec.QueryMaps(ctx, page)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"name": "c"}, {"name": "b"}}, got)
}
