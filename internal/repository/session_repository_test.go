package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSessionRepo(t *testing.T) (*SessionRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessionRepo(db), mock
}

const resolveSessionQ = "SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1"

func sessionRow(userID uint64, expiresAt time.Time, revokedAt any) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
		AddRow(userID, expiresAt, revokedAt)
}

func TestSessionResolveActive(t *testing.T) {
	repo, mock := newMockSessionRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(resolveSessionQ)).
		WithArgs("hash-1").
		WillReturnRows(sessionRow(7, time.Now().Add(time.Hour), nil))

	uid, err := repo.Resolve(context.Background(), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), uid)
}

func TestSessionResolveRevoked(t *testing.T) {
	repo, mock := newMockSessionRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(resolveSessionQ)).
		WithArgs("hash-1").
		WillReturnRows(sessionRow(7, time.Now().Add(time.Hour), time.Now().Add(-time.Minute)))

	_, err := repo.Resolve(context.Background(), "hash-1")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionResolveExpired(t *testing.T) {
	repo, mock := newMockSessionRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(resolveSessionQ)).
		WithArgs("hash-1").
		WillReturnRows(sessionRow(7, time.Now().Add(-time.Hour), nil))

	_, err := repo.Resolve(context.Background(), "hash-1")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionResolveUnknown(t *testing.T) {
	repo, mock := newMockSessionRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(resolveSessionQ)).
		WithArgs("hash-x").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := repo.Resolve(context.Background(), "hash-x")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionRevokeOnlyActiveRows(t *testing.T) {
	repo, mock := newMockSessionRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL")).
		WithArgs("hash-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Revoke(context.Background(), "hash-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
