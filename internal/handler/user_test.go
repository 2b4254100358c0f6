package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
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

func newUserHandler(t *testing.T) (*UserHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cfg := config.Config{BcryptCost: 4}
	return NewUserHandler(cfg, repository.NewUserRepo(db), nil), mock
}

func userRow(id uint64, role string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "full_name", "role",
		"department", "phone", "is_active", "created_at", "updated_at",
	}).AddRow(id, "new@example.com", "x", "New Member", role, "Talent", "", true, now, now)
}

func TestUserDeleteIsSoft(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE users SET is_active=FALSE, updated_at=NOW() WHERE id=?")).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	c.Set("user_id", uint64(1))

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDeleteMissing(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE users SET is_active=FALSE, updated_at=NOW() WHERE id=?")).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")
	c.Set("user_id", uint64(1))

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserProvisionReturnsInitialPasswordOnce(t *testing.T) {
	h, mock := newUserHandler(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=.+").
		WillReturnRows(userRow(12, "committee_member"))

	body := `{"email":"new@example.com","full_name":"New Member","role":"committee_member","department":"Talent"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	c.Set("role", "super_admin")

	require.NoError(t, h.Provision(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got, "initial_password")
	assert.Contains(t, got, "user")

	var pw string
	require.NoError(t, json.Unmarshal(got["initial_password"], &pw))
	assert.NotEmpty(t, pw)
}

func TestUserProvisionAdminRoleNeedsManageAdmins(t *testing.T) {
	h, _ := newUserHandler(t)

	body := `{"email":"boss@example.com","full_name":"Boss","role":"admin"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	// Plain admins hold manage_users in some deployments but never
	// manage_admins; assigning admin-level roles is refused.
	c.Set("role", "admin")

	require.NoError(t, h.Provision(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserProvisionRejectsUnknownRole(t *testing.T) {
	h, _ := newUserHandler(t)

	body := `{"email":"x@example.com","full_name":"X","role":"wizard"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	c.Set("role", "super_admin")

	require.NoError(t, h.Provision(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
