package handler

import (
    "encoding/json"
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/hireflow/recruitment-api/internal/repository"
)

// ApplicationHandler serves the application endpoints.  Create is public:
// applicants submit without an account.  Everything else sits behind the
// review permissions.
type ApplicationHandler struct {
    Applications *repository.ApplicationRepo
    Audits       *repository.AuditRepo
}

func NewApplicationHandler(a *repository.ApplicationRepo, au *repository.AuditRepo) *ApplicationHandler {
    return &ApplicationHandler{Applications: a, Audits: au}
}

type applicationReq struct {
    FormID         uint64          `json:"form_id"`
    CycleID        uint64          `json:"cycle_id"`
    ApplicantEmail string          `json:"applicant_email"`
    ApplicantName  string          `json:"applicant_name"`
    FormResponses  json.RawMessage `json:"form_responses"`
}

type applicationStatusReq struct {
    Status string `json:"status"`
}

// Create is registered on the public router group.  Submissions always
// start in status "submitted"; no caller-supplied status is accepted.
func (h *ApplicationHandler) Create(c echo.Context) error {
    var req applicationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.ApplicantEmail = strings.ToLower(strings.TrimSpace(req.ApplicantEmail))
    if req.FormID == 0 || req.CycleID == 0 || req.ApplicantEmail == "" || req.ApplicantName == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "form_id, cycle_id, applicant_email and applicant_name required"})
    }
    if len(req.FormResponses) == 0 {
        req.FormResponses = json.RawMessage("{}")
    }

    a := repository.Application{
        FormID:         req.FormID,
        CycleID:        req.CycleID,
        ApplicantEmail: req.ApplicantEmail,
        ApplicantName:  req.ApplicantName,
        FormResponses:  req.FormResponses,
    }
    if err := h.Applications.Create(c.Request().Context(), &a); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create application failed"})
    }
    return c.JSON(http.StatusCreated, a)
}

func (h *ApplicationHandler) List(c echo.Context) error {
    out, err := h.Applications.List(c.Request().Context(), queryID(c, "cycle_id"), queryID(c, "form_id"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list applications failed"})
    }
    if out == nil {
        out = []*repository.Application{}
    }
    return c.JSON(http.StatusOK, out)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    a, err := h.Applications.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get application failed"})
    }
    return c.JSON(http.StatusOK, a)
}

// UpdateStatus moves an application through the pipeline.  Only the status
// field is mutable after submission.
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req applicationStatusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if !repository.ApplicationStatuses[req.Status] {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }

    ctx := c.Request().Context()
    a, err := h.Applications.UpdateStatus(ctx, id, req.Status)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update application failed"})
    }
    recordAudit(ctx, h.Audits, uid, "application", id, "status_change", echo.Map{"status": req.Status})
    return c.JSON(http.StatusOK, a)
}
