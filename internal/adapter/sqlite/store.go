package sqlite

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/Strob0t/SkillSprint/internal/port/database"
)

// Compile-time check that Store implements database.Store.
var _ database.Store = (*Store)(nil)

// Store implements database.Store on a SQLite file.
type Store struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewStore creates a Store backed by the given handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
