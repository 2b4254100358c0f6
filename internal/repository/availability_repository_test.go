package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockAvailabilityRepo(t *testing.T) (*AvailabilityRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAvailabilityRepo(db), mock
}

func availabilityRows(id, userID uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "cycle_id", "start_time", "end_time",
		"is_available", "created_at", "updated_at",
	}).AddRow(id, userID, 1, now, now.Add(time.Hour), true, now, now)
}

func TestGetOwnedForeignSlot(t *testing.T) {
	repo, mock := newMockAvailabilityRepo(t)

	mock.ExpectQuery("SELECT .+ FROM availability_slots WHERE id = .+").
		WithArgs(uint64(5)).
		WillReturnRows(availabilityRows(5, 9))

	_, err := repo.GetOwned(context.Background(), 5, 2, false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetOwnedForeignSlotElevated(t *testing.T) {
	repo, mock := newMockAvailabilityRepo(t)

	mock.ExpectQuery("SELECT .+ FROM availability_slots WHERE id = .+").
		WithArgs(uint64(5)).
		WillReturnRows(availabilityRows(5, 9))

	s, err := repo.GetOwned(context.Background(), 5, 2, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), s.UserID)
}

func TestGetOwnedOwnSlot(t *testing.T) {
	repo, mock := newMockAvailabilityRepo(t)

	mock.ExpectQuery("SELECT .+ FROM availability_slots WHERE id = .+").
		WithArgs(uint64(5)).
		WillReturnRows(availabilityRows(5, 2))

	s, err := repo.GetOwned(context.Background(), 5, 2, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), s.ID)
}

func TestGetOwnedMissingSlot(t *testing.T) {
	repo, mock := newMockAvailabilityRepo(t)

	mock.ExpectQuery("SELECT .+ FROM availability_slots WHERE id = .+").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetOwned(context.Background(), 5, 2, false)
	assert.ErrorIs(t, err, ErrNotFound)
}
