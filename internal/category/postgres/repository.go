// Package postgres provides PostgreSQL implementation of the category repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tablebell/restaurant-api/internal/category"
	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/pkg/postgres"
)

// Repository implements category.Repository using PostgreSQL.
type Repository struct {
	db postgres.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db}
}

const categoryColumns = `id, name, slug, image, created_at, updated_at`

// GetOrCreate upserts on slug so concurrent creators converge on one row.
func (r *Repository) GetOrCreate(ctx context.Context, name, slug string) (*domain.Category, error) {
	query := `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING ` + categoryColumns
	c, err := scanCategory(postgres.Conn(ctx, r.db).QueryRow(ctx, query, name, slug))
	if err != nil {
		return nil, fmt.Errorf("upsert category: %w", err)
	}
	return c, nil
}

// GetBySlug retrieves a category by slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`
	c, err := scanCategory(postgres.Conn(ctx, r.db).QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return c, nil
}

// List retrieves all categories ordered by name.
func (r *Repository) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name`
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Image, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
