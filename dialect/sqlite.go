package dialect

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// SQLite accepts the same quoting as Postgres but binds with "?".
type SQLite struct{}

func NewSQLiteDialect() Dialect {
	return &SQLite{}
}

func (SQLite) Name() string { return "sqlite3" }

func (s SQLite) QuoteIdentifier(name string) (string, error) {
	return quoteChecked(name)
}

func (s SQLite) Placeholder(n int) string {
	return "?"
}

func (s SQLite) RenderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64)
	case time.Time:
		return "'" + val.UTC().Format("2006-01-02 15:04:05.000") + "'"
	case []byte:
		return fmt.Sprintf("X'%x'", val)
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(val), "'", "''") + "'"
	}
}

// ForDriver maps a database/sql driver name to its dialect.
func ForDriver(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return NewPostgresDialect(), nil
	case "sqlite3", "sqlite":
		return NewSQLiteDialect(), nil
	default:
		return nil, fmt.Errorf("no dialect for driver %q", driver)
	}
}
