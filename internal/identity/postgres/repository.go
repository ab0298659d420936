// Package postgres provides PostgreSQL implementation of the identity repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/identity"
	"github.com/tablebell/restaurant-api/internal/pkg/postgres"
)

// Repository implements the identity.Repository interface using PostgreSQL.
type Repository struct {
	db postgres.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, email, password, role, created_at, updated_at`

// CreateUser inserts a user and fills its id and timestamps.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, password, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query,
		user.Email,
		user.Password,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return identity.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by id.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(postgres.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(postgres.Conn(ctx, r.db).QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// UpdateUser saves email and password. Role is never changed.
func (r *Repository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $2, password = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Password,
	).Scan(&user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.ErrUserNotFound
		}
		if postgres.IsUniqueViolation(err) {
			return identity.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
