package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/recruitment-api/internal/config"
	"github.com/hireflow/recruitment-api/internal/repository"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 5, RefreshTTLDays: 7, BcryptCost: 4}
	return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewSessionRepo(db)), mock
}

func refreshCall(t *testing.T, h *AuthHandler, token string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh",
		strings.NewReader(`{"refresh_token":"`+token+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Refresh(e.NewContext(req, rec)))
	return rec
}

func activeSessionRow(userID uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
		AddRow(userID, time.Now().Add(time.Hour), nil)
}

func authUserRow(id uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "full_name", "role",
		"department", "phone", "is_active", "created_at", "updated_at",
	}).AddRow(id, "jane@example.com", "x", "Jane Doe", "committee_member", "", "", true, now, now)
}

func TestRefreshRotatesSession(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WillReturnRows(activeSessionRow(7))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at=NOW()").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=.+").
		WillReturnRows(authUserRow(7))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := refreshCall(t, h, "old-raw-token")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(7), resp.User.ID)
	assert.NotEmpty(t, resp.Access.Token)
	assert.NotEqual(t, "old-raw-token", resp.Refresh.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed revocation of the superseded session is logged but does not
// abort rotation; the client still gets its new pair.
func TestRefreshSurvivesRevokeFailure(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WillReturnRows(activeSessionRow(7))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at=NOW()").
		WillReturnError(assert.AnError)
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=.+").
		WillReturnRows(authUserRow(7))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := refreshCall(t, h, "old-raw-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshRevokedSessionRejected(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(7, time.Now().Add(time.Hour), time.Now()))

	rec := refreshCall(t, h, "revoked-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
