package cache

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

var ErrStatementCacheClosed = errors.New("statement cache closed")

// Preparer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// StatementCache keeps prepared statements keyed by the hash of their
// rebound SQL text. Evicted statements are closed.
type StatementCache struct {
	cache  *lru.Cache[uint64, *sql.Stmt]
	mu     sync.Mutex
	closed bool
}

func NewStatementCache(size int) *StatementCache {
	if size <= 0 {
		size = DefaultSize
	}
	c, _ := lru.NewWithEvict(size, func(_ uint64, stmt *sql.Stmt) {
		_ = stmt.Close()
	})
	return &StatementCache{cache: c}
}

func (s *StatementCache) Get(key uint64) (*sql.Stmt, bool) {
	return s.cache.Get(key)
}

// GetOrPrepare returns the cached statement for key or prepares query.
func (s *StatementCache) GetOrPrepare(ctx context.Context, key uint64, db Preparer, query string) (*sql.Stmt, error) {
	if stmt, ok := s.cache.Get(key); ok {
		return stmt, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStatementCacheClosed
	}
	if stmt, ok := s.cache.Get(key); ok {
		return stmt, nil
	}

	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, stmt)
	return stmt, nil
}

func (s *StatementCache) Len() int {
	return s.cache.Len()
}

// Close closes every cached statement.
func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.cache.Purge()
	return nil
}
