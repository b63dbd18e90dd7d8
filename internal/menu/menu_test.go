package menu

import (
	"context"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestListCategories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name FROM categories`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow("wraps", "Wraps").
			AddRow("sides", "Sides"))

	repo := &Repo{DB: mock}
	cats, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Category{{"wraps", "Wraps"}, {"sides", "Sides"}}, cats)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListItems(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM menu_items WHERE category_id`).
		WithArgs("wraps").
		WillReturnRows(pgxmock.NewRows([]string{"id", "category_id", "name", "price_cents", "available"}).
			AddRow("wrap", "wraps", "Chicken Wrap", int64(450), true))

	repo := &Repo{DB: mock}
	items, err := repo.ListItems(context.Background(), "wraps")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(450), items[0].PriceCents)
	assert.True(t, items[0].Available)
}

func TestGetItemNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM menu_items WHERE id`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	repo := &Repo{DB: mock}
	_, err = repo.GetItem(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOptionsEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM item_options`).
		WithArgs("fries").
		WillReturnRows(pgxmock.NewRows([]string{"name"}))

	repo := &Repo{DB: mock}
	opts, err := repo.Options(context.Background(), "fries")
	require.NoError(t, err)
	assert.NotNil(t, opts)
	assert.Empty(t, opts)
}
