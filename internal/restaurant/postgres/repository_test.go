package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablebell/restaurant-api/internal/domain"
	"github.com/tablebell/restaurant-api/internal/restaurant"
)

var restaurantCols = []string{
	"id", "name", "background_image", "address", "category_id", "owner_id", "created_at", "updated_at",
	"c_id", "c_name", "c_slug", "c_image", "c_created_at", "c_updated_at",
}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewRepository(mock)
}

func TestGetByID_WithCategory(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now()
	catID := int64(2)
	catName, catSlug := "fast food", "fast-food"

	mock.ExpectQuery(`FROM restaurants r LEFT JOIN categories c .+ WHERE r.id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(restaurantCols).AddRow(
			int64(1), "Burger Barn", "bg.png", "1 Main St", &catID, int64(9), now, now,
			&catID, &catName, &catSlug, (*string)(nil), &now, &now,
		))

	got, err := repo.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(9), got.OwnerID)
	require.NotNil(t, got.Category)
	assert.Equal(t, "fast-food", got.Category.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_WithoutCategory(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM restaurants r`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(restaurantCols).AddRow(
			int64(1), "Burger Barn", "bg.png", "1 Main St", (*int64)(nil), int64(9), now, now,
			(*int64)(nil), (*string)(nil), (*string)(nil), (*string)(nil), (*time.Time)(nil), (*time.Time)(nil),
		))

	got, err := repo.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
}

func TestGetForUpdate_LocksRow(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`FROM restaurants WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(5)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetForUpdate(context.Background(), 5)

	assert.ErrorIs(t, err, restaurant.ErrRestaurantNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_EscapesPattern(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`WHERE r.name ILIKE \$1`).
		WithArgs(`%50\%\_off%`, 10, 0).
		WillReturnRows(pgxmock.NewRows(restaurantCols))

	list, err := repo.Search(context.Background(), "50%_off", 10, 0)

	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByCategory(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM restaurants WHERE category_id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(14))

	n, err := repo.CountByCategory(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, 14, n)
}

func TestDelete_NotFound(t *testing.T) {
	mock, repo := newMock(t)

	mock.ExpectExec(`DELETE FROM restaurants WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 5), restaurant.ErrRestaurantNotFound)
}

func TestCreate(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now()
	catID := int64(2)

	mock.ExpectQuery(`INSERT INTO restaurants`).
		WithArgs("Burger Barn", "bg.png", "1 Main St", &catID, int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	rest := &domain.Restaurant{Name: "Burger Barn", BackgroundImage: "bg.png", Address: "1 Main St", CategoryID: &catID, OwnerID: 9}
	require.NoError(t, repo.Create(context.Background(), rest))
	assert.Equal(t, int64(11), rest.ID)
}
