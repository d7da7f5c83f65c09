package repository

import (
	"context"

	"luct/reporting/internal/model"
)

const userColumns = `id, username, password_hash, full_name, role, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, mapError(err)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// CreateUser inserts user and returns the stored row. A concurrent insert of
// the same username surfaces as ErrDuplicate from the unique index.
func (s *Store) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		user.Username, user.PasswordHash, user.FullName, user.Role)
	return scanUser(row)
}
