package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedash/internal/model"
	"invoicedash/internal/repository"
)

func TestCustomerPostgres_List(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerPostgres(db)
	ctx := context.Background()

	t.Run("ordered by name", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, email, image_url FROM customers ORDER BY name ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "image_url"}).
				AddRow("c1", "Amy Burns", "amy@burns.com", "/amy.png").
				AddRow("c2", "Lee Robinson", "lee@robinson.com", "/lee.png"))

		got, err := repo.List(ctx)

		require.NoError(t, err)
		assert.Equal(t, []model.Customer{
			{ID: "c1", Name: "Amy Burns", Email: "amy@burns.com", ImageURL: "/amy.png"},
			{ID: "c2", Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/lee.png"},
		}, got)
	})

	t.Run("storage error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM customers").WillReturnError(errors.New("timeout"))

		_, err := repo.List(ctx)

		assert.ErrorIs(t, err, repository.ErrStorage)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
