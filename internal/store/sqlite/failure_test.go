package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockStore(t *testing.T) (trade.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestStorageFailuresAreWrapped(t *testing.T) {
	s, mock := setupMockStore(t)
	ctx := context.Background()
	diskErr := errors.New("disk I/O error")

	mock.ExpectExec("INSERT INTO users").WillReturnError(diskErr)
	err := s.UpsertUser(ctx, trade.User{ID: "U1"})
	assert.ErrorIs(t, err, trade.ErrStorageUnavailable)
	assert.ErrorIs(t, err, diskErr)

	mock.ExpectExec("INSERT INTO offers").WillReturnError(diskErr)
	_, err = s.CreateListing(ctx, trade.KindOffer, "U1", "mew", card.OneStar)
	assert.ErrorIs(t, err, trade.ErrStorageUnavailable)

	mock.ExpectQuery("FROM searches").WillReturnError(diskErr)
	_, err = s.FindByKey(ctx, trade.KindSearch, "mew", card.OneStar)
	assert.ErrorIs(t, err, trade.ErrStorageUnavailable)

	mock.ExpectQuery("FROM offers").WillReturnError(diskErr)
	_, err = s.ListAllOffersGrouped(ctx)
	assert.ErrorIs(t, err, trade.ErrStorageUnavailable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePair_RollsBackWhenOfferMissing(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM searches").WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM offers").WithArgs("o1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.DeletePair(context.Background(), "s1", "o1")
	assert.ErrorIs(t, err, trade.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePair_CommitFailure(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM searches").WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM offers").WithArgs("o1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

	err := s.DeletePair(context.Background(), "s1", "o1")
	assert.ErrorIs(t, err, trade.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, trade.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
