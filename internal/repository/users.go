package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/vidly/internal/model"
)

// CreateUser создаёт нового пользователя. Занятый email даёт ErrEmailTaken.
func (r *PostgresRepository) CreateUser(ctx context.Context, u model.User) error {
	_, err := r.q(ctx).Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, is_admin) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.IsAdmin,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByEmail возвращает пользователя по email.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.q(ctx).QueryRow(ctx,
		`SELECT id, name, email, password_hash, is_admin FROM users WHERE email = $1`,
		email,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "get user by email")
	}
	return &u, nil
}

// GetUser возвращает пользователя по идентификатору.
func (r *PostgresRepository) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	row := r.q(ctx).QueryRow(ctx,
		`SELECT id, name, email, password_hash, is_admin FROM users WHERE id = $1`,
		id,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "get user")
	}
	return &u, nil
}

func scanUser(row scanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin)
	return u, err
}
