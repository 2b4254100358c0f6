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

	"github.com/hireflow/recruitment-api/internal/repository"
)

func newApplicationHandler(t *testing.T) (*ApplicationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewApplicationHandler(repository.NewApplicationRepo(db), nil), mock
}

func applicationRow(id uint64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "form_id", "cycle_id", "applicant_email", "applicant_name",
		"form_responses", "status", "created_at", "updated_at",
	}).AddRow(id, 1, 2, "jane@example.com", "Jane Doe", []byte(`{}`), status, now, now)
}

func TestApplicationCreatePublicSubmission(t *testing.T) {
	h, mock := newApplicationHandler(t)

	mock.ExpectExec("INSERT INTO applications").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectQuery("SELECT .+ FROM applications WHERE id = .+").
		WillReturnRows(applicationRow(10, "submitted"))

	body := `{"form_id":1,"cycle_id":2,"applicant_email":"Jane@Example.com","applicant_name":"Jane Doe","form_responses":{"q1":"yes"}}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/applications", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	// No user in context: the endpoint is public.
	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got repository.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "submitted", got.Status)
	assert.Equal(t, uint64(10), got.ID)
}

func TestApplicationCreateRejectsMissingFields(t *testing.T) {
	h, _ := newApplicationHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/applications", strings.NewReader(`{"form_id":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplicationUpdateStatusValidatesValue(t *testing.T) {
	h, _ := newApplicationHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"archived"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("10")
	c.Set("user_id", uint64(1))

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplicationUpdateStatusMovesPipeline(t *testing.T) {
	h, mock := newApplicationHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE applications SET status = ?, updated_at = NOW() WHERE id = ?")).
		WithArgs("under_review", uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT .+ FROM applications WHERE id = .+").
		WillReturnRows(applicationRow(10, "under_review"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"under_review"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("10")
	c.Set("user_id", uint64(1))

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got repository.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "under_review", got.Status)
}
