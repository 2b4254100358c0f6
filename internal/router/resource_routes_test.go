package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/recruitment-api/internal/auth"
	"github.com/hireflow/recruitment-api/internal/config"
	"github.com/hireflow/recruitment-api/internal/handler"
	"github.com/hireflow/recruitment-api/internal/repository"
	"github.com/hireflow/recruitment-api/internal/utils"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mock.MatchExpectationsInOrder(false)

	cycles := repository.NewCycleRepo(db)
	forms := repository.NewFormRepo(db)
	applications := repository.NewApplicationRepo(db)
	reviews := repository.NewReviewRepo(db)
	interviews := repository.NewInterviewRepo(db)
	slots := repository.NewAvailabilityRepo(db)
	campaigns := repository.NewCampaignRepo(db)
	users := repository.NewUserRepo(db)
	audits := repository.NewAuditRepo(db)

	e := echo.New()
	RegisterResources(e, ResourceHandlers{
		Cycles:       handler.NewCycleHandler(cycles, nil),
		Forms:        handler.NewFormHandler(forms, nil),
		Applications: handler.NewApplicationHandler(applications, nil),
		Reviews:      handler.NewReviewHandler(reviews, nil),
		Interviews:   handler.NewInterviewHandler(interviews, nil),
		Availability: handler.NewAvailabilityHandler(slots, nil),
		Campaigns:    handler.NewCampaignHandler(campaigns, applications, nil),
		Users:        handler.NewUserHandler(config.Config{BcryptCost: 4}, users, nil),
		Audits:       handler.NewAuditHandler(audits),
	}, testSecret)
	return e, mock
}

func bearerFor(t *testing.T, role auth.Role) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, 7, role, 5)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func doGet(e *echo.Echo, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(echo.HeaderAuthorization, bearer)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// Reads are open to any authenticated role; a plain user browsing cycles,
// forms, reviews, interviews and their own availability must not see 403.
func TestReadsOpenToLowestRole(t *testing.T) {
	e, mock := newTestServer(t)
	bearer := bearerFor(t, auth.RoleUser)

	mock.ExpectQuery("SELECT .+ FROM recruitment_cycles").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .+ FROM forms").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .+ FROM reviews").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .+ FROM interviews").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT .+ FROM availability_slots").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	for _, path := range []string{
		"/v1/cycles",
		"/v1/forms",
		"/v1/reviews",
		"/v1/interviews",
		"/v1/availability",
	} {
		rec := doGet(e, path, bearer)
		assert.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
	}
}

// User listings and the audit trail keep their permission gates.
func TestPrivilegedReadsStayGated(t *testing.T) {
	e, _ := newTestServer(t)
	bearer := bearerFor(t, auth.RoleUser)

	for _, path := range []string{"/v1/users", "/v1/audit-logs", "/v1/campaigns", "/v1/email-logs"} {
		rec := doGet(e, path, bearer)
		assert.Equal(t, http.StatusForbidden, rec.Code, "GET %s", path)
	}
}

func TestWritesStayGated(t *testing.T) {
	e, _ := newTestServer(t)
	bearer := bearerFor(t, auth.RoleUser)

	req := httptest.NewRequest(http.MethodPost, "/v1/cycles", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUnauthenticatedReadRejected(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/cycles", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Cycle deletion is reserved for the top role even though admins manage
// cycles day to day.
func TestCycleDeleteReservedForTopRole(t *testing.T) {
	e, _ := newTestServer(t)
	bearer := bearerFor(t, auth.RoleAdmin)

	req := httptest.NewRequest(http.MethodDelete, "/v1/cycles/3", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
