// Package postgres provides PostgreSQL implementation of the restaurant repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/pkg/postgres"
	"github.com/tablebell/restaurant-api/internal/restaurant"
)

// Repository implements restaurant.Repository using PostgreSQL.
type Repository struct {
	db postgres.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db}
}

const selectRestaurant = `
	SELECT r.id, r.name, r.background_image, r.address, r.category_id, r.owner_id,
	       r.created_at, r.updated_at,
	       c.id, c.name, c.slug, c.image, c.created_at, c.updated_at
	FROM restaurants r
	LEFT JOIN categories c ON c.id = r.category_id
`

// Create inserts a restaurant and fills its id and timestamps.
func (r *Repository) Create(ctx context.Context, rest *domain.Restaurant) error {
	query := `
		INSERT INTO restaurants (name, background_image, address, category_id, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query,
		rest.Name,
		rest.BackgroundImage,
		rest.Address,
		rest.CategoryID,
		rest.OwnerID,
	).Scan(&rest.ID, &rest.CreatedAt, &rest.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create restaurant: %w", err)
	}
	return nil
}

// GetByID retrieves a restaurant by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	rest, err := scanRestaurant(postgres.Conn(ctx, r.db).QueryRow(ctx, selectRestaurant+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, restaurant.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return rest, nil
}

// GetForUpdate retrieves a restaurant and locks its row.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*domain.Restaurant, error) {
	query := `
		SELECT id, name, background_image, address, category_id, owner_id, created_at, updated_at
		FROM restaurants
		WHERE id = $1
		FOR UPDATE
	`
	var rest domain.Restaurant
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&rest.ID,
		&rest.Name,
		&rest.BackgroundImage,
		&rest.Address,
		&rest.CategoryID,
		&rest.OwnerID,
		&rest.CreatedAt,
		&rest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, restaurant.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant for update: %w", err)
	}
	return &rest, nil
}

// Update saves editable fields. Owner is never changed.
func (r *Repository) Update(ctx context.Context, rest *domain.Restaurant) error {
	query := `
		UPDATE restaurants
		SET name = $2, background_image = $3, address = $4, category_id = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query,
		rest.ID,
		rest.Name,
		rest.BackgroundImage,
		rest.Address,
		rest.CategoryID,
	).Scan(&rest.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return restaurant.ErrRestaurantNotFound
		}
		return fmt.Errorf("update restaurant: %w", err)
	}
	return nil
}

// Delete removes a restaurant. Dishes go with it via ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return restaurant.ErrRestaurantNotFound
	}
	return nil
}

// List retrieves a page of restaurants, newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]domain.Restaurant, error) {
	query := selectRestaurant + ` ORDER BY r.id DESC LIMIT $1 OFFSET $2`
	return r.queryRestaurants(ctx, query, limit, offset)
}

// Count returns the number of restaurants.
func (r *Repository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM restaurants`)
}

// Search retrieves restaurants whose name contains q, case-insensitively.
func (r *Repository) Search(ctx context.Context, q string, limit, offset int) ([]domain.Restaurant, error) {
	query := selectRestaurant + ` WHERE r.name ILIKE $1 ORDER BY r.id DESC LIMIT $2 OFFSET $3`
	return r.queryRestaurants(ctx, query, likePattern(q), limit, offset)
}

// CountSearch returns the number of restaurants matching q.
func (r *Repository) CountSearch(ctx context.Context, q string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM restaurants WHERE name ILIKE $1`, likePattern(q))
}

// ListByCategory retrieves a page of restaurants in a category.
func (r *Repository) ListByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]domain.Restaurant, error) {
	query := selectRestaurant + ` WHERE r.category_id = $1 ORDER BY r.id DESC LIMIT $2 OFFSET $3`
	return r.queryRestaurants(ctx, query, categoryID, limit, offset)
}

// CountByCategory returns the number of restaurants in a category.
func (r *Repository) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM restaurants WHERE category_id = $1`, categoryID)
}

// ListDishes retrieves the dishes of a restaurant ordered by id.
func (r *Repository) ListDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, error) {
	query := `
		SELECT id, name, price, description, image, restaurant_id, created_at, updated_at
		FROM dishes
		WHERE restaurant_id = $1
		ORDER BY id
	`
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	defer rows.Close()

	dishes := make([]domain.Dish, 0)
	for rows.Next() {
		var d domain.Dish
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Price,
			&d.Description,
			&d.Image,
			&d.RestaurantID,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		dishes = append(dishes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dishes: %w", err)
	}
	return dishes, nil
}

func (r *Repository) queryRestaurants(ctx context.Context, query string, args ...any) ([]domain.Restaurant, error) {
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	list := make([]domain.Restaurant, 0)
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		list = append(list, *rest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}
	return list, nil
}

func (r *Repository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count restaurants: %w", err)
	}
	return n, nil
}

// scanRestaurant reads a selectRestaurant row; the category columns are NULL
// when the restaurant has none.
func scanRestaurant(row pgx.Row) (*domain.Restaurant, error) {
	var (
		rest domain.Restaurant
		cat  nullableCategory
	)
	err := row.Scan(
		&rest.ID,
		&rest.Name,
		&rest.BackgroundImage,
		&rest.Address,
		&rest.CategoryID,
		&rest.OwnerID,
		&rest.CreatedAt,
		&rest.UpdatedAt,
		&cat.ID,
		&cat.Name,
		&cat.Slug,
		&cat.Image,
		&cat.CreatedAt,
		&cat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rest.Category = cat.toDomain()
	return &rest, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
