// Package postgres provides PostgreSQL implementation of the verification repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/pkg/postgres"
	"github.com/tablebell/restaurant-api/internal/verification"
)

// Repository implements verification.Repository using PostgreSQL.
type Repository struct {
	db postgres.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts or replaces the user's verification record.
func (r *Repository) Upsert(ctx context.Context, v *domain.EmailVerification) error {
	query := `
		INSERT INTO email_verifications (user_id, code, verified)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id) DO UPDATE
		SET code = EXCLUDED.code, verified = FALSE, updated_at = NOW()
		RETURNING id, verified, created_at, updated_at
	`
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, v.UserID, v.Code).
		Scan(&v.ID, &v.Verified, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert verification: %w", err)
	}
	return nil
}

// GetByUserID retrieves the user's verification record.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.EmailVerification, error) {
	query := `
		SELECT id, user_id, code, verified, created_at, updated_at
		FROM email_verifications
		WHERE user_id = $1
	`
	var v domain.EmailVerification
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, userID).Scan(
		&v.ID,
		&v.UserID,
		&v.Code,
		&v.Verified,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, verification.ErrNotFound
		}
		return nil, fmt.Errorf("get verification: %w", err)
	}
	return &v, nil
}

// MarkVerified flags the record as verified.
func (r *Repository) MarkVerified(ctx context.Context, id int64) error {
	query := `UPDATE email_verifications SET verified = TRUE, updated_at = NOW() WHERE id = $1`
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return verification.ErrNotFound
	}
	return nil
}
