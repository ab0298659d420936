package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablebell/restaurant-api/internal/category"
)

var categoryCols = []string{"id", "name", "slug", "image", "created_at", "updated_at"}

func TestGetOrCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO categories .+ ON CONFLICT \(slug\)`).
		WithArgs("fast food", "fast-food").
		WillReturnRows(pgxmock.NewRows(categoryCols).AddRow(int64(4), "fast food", "fast-food", (*string)(nil), now, now))

	c, err := NewRepository(mock).GetOrCreate(context.Background(), "fast food", "fast-food")

	require.NoError(t, err)
	assert.Equal(t, int64(4), c.ID)
	assert.Nil(t, c.Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySlug_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM categories WHERE slug = \$1`).WithArgs("nope").WillReturnError(pgx.ErrNoRows)

	_, err = NewRepository(mock).GetBySlug(context.Background(), "nope")

	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	now := time.Now()
	img := "https://img.example.com/p.png"

	mock.ExpectQuery(`FROM categories ORDER BY name`).
		WillReturnRows(pgxmock.NewRows(categoryCols).
			AddRow(int64(1), "burgers", "burgers", (*string)(nil), now, now).
			AddRow(int64(2), "pizza", "pizza", &img, now, now))

	list, err := NewRepository(mock).List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "pizza", list[1].Name)
	assert.Equal(t, img, *list[1].Image)
}
