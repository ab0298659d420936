package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablebell/restaurant-api/internal/dish"
	"github.com/tablebell/restaurant-api/internal/domain"
)

func TestGetForUpdate_PopulatesOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	now := time.Now()

	mock.ExpectQuery(`FROM dishes d JOIN restaurants r .+ FOR UPDATE OF d`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "price", "description", "image", "restaurant_id", "created_at", "updated_at", "owner_id",
		}).AddRow(int64(3), "Fries", 3.5, "Crispy golden fries with sea salt", (*string)(nil), int64(10), now, now, int64(1)))

	d, err := NewRepository(mock).GetForUpdate(context.Background(), 3)

	require.NoError(t, err)
	require.NotNil(t, d.Restaurant)
	assert.Equal(t, int64(1), d.Restaurant.OwnerID)
	assert.Equal(t, int64(10), d.Restaurant.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForUpdate_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM dishes d`).WithArgs(int64(3)).WillReturnError(pgx.ErrNoRows)

	_, err = NewRepository(mock).GetForUpdate(context.Background(), 3)

	assert.ErrorIs(t, err, dish.ErrDishNotFound)
}

func TestCreateAndUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	now := time.Now()
	img := "fries.png"

	mock.ExpectQuery(`INSERT INTO dishes`).
		WithArgs("Fries", 3.5, "Crispy golden fries with sea salt", &img, int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(3), now, now))
	mock.ExpectQuery(`UPDATE dishes`).
		WithArgs(int64(3), "Fries", 4.0, "Crispy golden fries with sea salt", &img).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))

	repo := NewRepository(mock)
	d := &domain.Dish{Name: "Fries", Price: 3.5, Description: "Crispy golden fries with sea salt", Image: &img, RestaurantID: 10}
	require.NoError(t, repo.Create(context.Background(), d))
	assert.Equal(t, int64(3), d.ID)

	d.Price = 4.0
	require.NoError(t, repo.Update(context.Background(), d))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM dishes`).WithArgs(int64(3)).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, NewRepository(mock).Delete(context.Background(), 3), dish.ErrDishNotFound)
}
