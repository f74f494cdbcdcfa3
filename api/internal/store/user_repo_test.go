package store

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByPhoneFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`select user_id::text from users`).
		WithArgs("+51987535574").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow("3f6c2b9a-1111-2222-3333-444455556666"))

	repo := NewUserRepo(mock)
	id, err := repo.FindByPhone(context.Background(), "+51987535574")
	require.NoError(t, err)
	assert.Equal(t, "3f6c2b9a-1111-2222-3333-444455556666", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByPhoneNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`select user_id::text from users`).
		WithArgs("999999999").
		WillReturnError(ErrNotFound)

	repo := NewUserRepo(mock)
	_, err = repo.FindByPhone(context.Background(), "999999999")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByPhoneTimeoutClassification(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`select user_id::text from users`).
		WithArgs("987535574").
		WillReturnError(context.DeadlineExceeded)

	repo := NewUserRepo(mock)
	_, err = repo.FindByPhone(context.Background(), "987535574")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.True(t, IsTimeout(err))

	assert.False(t, IsTimeout(errors.New("connection refused")))
}
