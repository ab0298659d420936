// Package postgres provides PostgreSQL implementation of the dish repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tablebell/restaurant-api/internal/dish"
	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/pkg/postgres"
)

// Repository implements dish.Repository using PostgreSQL.
type Repository struct {
	db postgres.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a dish and fills its id and timestamps.
func (r *Repository) Create(ctx context.Context, d *domain.Dish) error {
	query := `
		INSERT INTO dishes (name, price, description, image, restaurant_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query,
		d.Name,
		d.Price,
		d.Description,
		d.Image,
		d.RestaurantID,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create dish: %w", err)
	}
	return nil
}

// GetForUpdate retrieves a dish with its restaurant's owner and locks the
// dish row.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*domain.Dish, error) {
	query := `
		SELECT d.id, d.name, d.price, d.description, d.image, d.restaurant_id,
		       d.created_at, d.updated_at, r.owner_id
		FROM dishes d
		JOIN restaurants r ON r.id = d.restaurant_id
		WHERE d.id = $1
		FOR UPDATE OF d
	`
	var (
		d       domain.Dish
		ownerID int64
	)
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.Name,
		&d.Price,
		&d.Description,
		&d.Image,
		&d.RestaurantID,
		&d.CreatedAt,
		&d.UpdatedAt,
		&ownerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dish.ErrDishNotFound
		}
		return nil, fmt.Errorf("get dish for update: %w", err)
	}
	d.Restaurant = &domain.Restaurant{ID: d.RestaurantID, OwnerID: ownerID}
	return &d, nil
}

// Update saves editable fields.
func (r *Repository) Update(ctx context.Context, d *domain.Dish) error {
	query := `
		UPDATE dishes
		SET name = $2, price = $3, description = $4, image = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query,
		d.ID,
		d.Name,
		d.Price,
		d.Description,
		d.Image,
	).Scan(&d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dish.ErrDishNotFound
		}
		return fmt.Errorf("update dish: %w", err)
	}
	return nil
}

// Delete removes a dish.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dish.ErrDishNotFound
	}
	return nil
}
