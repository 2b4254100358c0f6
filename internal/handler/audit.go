package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hireflow/recruitment-api/internal/repository"
)

// AuditHandler serves the read-only audit log endpoint.
type AuditHandler struct {
	Audits *repository.AuditRepo
}

func NewAuditHandler(a *repository.AuditRepo) *AuditHandler {
	return &AuditHandler{Audits: a}
}

// List returns audit rows newest first.  limit defaults to 50 (capped at
// 500) and offset to 0; malformed values fall back to the defaults.
func (h *AuditHandler) List(c echo.Context) error {
	limit := 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 500 {
		limit = 500
	}
	offset := 0
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}

	out, err := h.Audits.List(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list audit logs failed"})
	}
	if out == nil {
		out = []*repository.AuditLog{}
	}
	return c.JSON(http.StatusOK, out)
}
