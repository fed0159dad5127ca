package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Strob0t/SkillSprint/internal/domain"
	"github.com/Strob0t/SkillSprint/internal/domain/user"
)

var userColumns = []string{"id", "name", "email", "password", "created_at"}

type userRow struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Email     string         `db:"email"`
	Password  string         `db:"password"`
	CreatedAt sql.NullString `db:"created_at"`
}

func (r *userRow) toDomain() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.Password,
		CreatedAt:    parseTimestamp(r.CreatedAt),
	}
}

// CreateUser inserts u and fills its ID and CreatedAt.
func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	query, args, err := s.sb.Insert("users").
		Columns("name", "email", "password", "created_at").
		Values(u.Name, u.Email, u.PasswordHash, formatTimestamp(u.CreatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create user: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user %s: %w", u.Email, domain.ErrDuplicateEmail)
		}
		return fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create user id: %w", err)
	}
	u.ID = id
	return nil
}

// GetUserByEmail returns the user with the given email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	query, args, err := s.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user: %w", err)
	}

	var row userRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, notFoundWrap(err, "get user by email %s", email)
	}
	u := row.toDomain()
	return &u, nil
}

// ListUsers returns all users ordered by ID.
func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	query, args, err := s.sb.Select(userColumns...).
		From("users").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}

	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]user.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toDomain())
	}
	return users, nil
}

// UpdateUserPassword replaces the stored hash for email.
func (s *Store) UpdateUserPassword(ctx context.Context, email, passwordHash string) error {
	n, err := exec(ctx, s.db, s.sb.Update("users").
		Set("password", passwordHash).
		Where(squirrel.Eq{"email": email}), "update user password")
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update user password %s: %w", email, domain.ErrNotFound)
	}
	return nil
}
