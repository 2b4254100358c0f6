package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/recruitment-api/internal/auth"
)

func runWithRole(t *testing.T, role any, perm auth.Permission) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}

	h := RequirePermission(perm)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequirePermissionAllowsGrantedRole(t *testing.T) {
	rec := runWithRole(t, "admin", auth.PermManageCycles)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRequirePermissionRejectsMissingRole(t *testing.T) {
	rec := runWithRole(t, nil, auth.PermManageCycles)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermissionRejectsInsufficientRole(t *testing.T) {
	rec := runWithRole(t, "committee_member", auth.PermManageCycles)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermissionRejectsUnknownRole(t *testing.T) {
	rec := runWithRole(t, "intern", auth.PermReviewApplications)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermissionSuperAdminLacksSubmit(t *testing.T) {
	// Permission sets are enumerated, not inherited: the top role does
	// not implicitly hold applicant-only capabilities.
	rec := runWithRole(t, "super_admin", auth.PermSubmitApplication)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoleFromContext(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := RoleFromContext(c)
	assert.False(t, ok)

	c.Set("role", "team_management")
	role, ok := RoleFromContext(c)
	require.True(t, ok)
	assert.Equal(t, auth.RoleTeamManagement, role)
}
