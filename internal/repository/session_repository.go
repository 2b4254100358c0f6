package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SessionRepo persists refresh sessions in the refresh_tokens table.  A
// session is the explicit server-side half of a login: the client holds
// the raw refresh token, the row holds only its SHA-256 hash, the expiry
// and an optional revocation timestamp.  Rotation revokes the old row and
// starts a new one.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Start records a new refresh session for the user.
func (r *SessionRepo) Start(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// Resolve maps a refresh token hash back to its user.  A missing, revoked
// or expired session yields ErrSessionInvalid; callers answer all three
// with the same 401 so a probing client learns nothing about which case
// it hit.
func (r *SessionRepo) Resolve(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSessionInvalid
	}
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return 0, ErrSessionInvalid
	}
	return userID, nil
}

// Revoke ends one session by hash.  Already-revoked rows are left alone.
func (r *SessionRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser ends every active session of a user, e.g. after an
// account is deactivated.
func (r *SessionRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
