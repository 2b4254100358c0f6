package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hireflow/recruitment-api/internal/repository"
)

// InterviewHandler serves the interview scheduling endpoints.
type InterviewHandler struct {
	Interviews *repository.InterviewRepo
	Audits     *repository.AuditRepo
}

func NewInterviewHandler(i *repository.InterviewRepo, a *repository.AuditRepo) *InterviewHandler {
	return &InterviewHandler{Interviews: i, Audits: a}
}

// InterviewStatuses enumerates the accepted interview status values.
var interviewStatuses = map[string]bool{
	"scheduled": true,
	"completed": true,
	"cancelled": true,
	"no_show":   true,
}

type interviewReq struct {
	ApplicationID   uint64     `json:"application_id"`
	InterviewerID   uint64     `json:"interviewer_id"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes"`
	MeetingLink     string     `json:"meeting_link"`
	Notes           string     `json:"notes"`
	Status          string     `json:"status"`
}

func (h *InterviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req interviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ApplicationID == 0 || req.InterviewerID == 0 || req.ScheduledAt == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "application_id, interviewer_id and scheduled_at required"})
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = 30
	}

	iv := repository.Interview{
		ApplicationID:   req.ApplicationID,
		InterviewerID:   req.InterviewerID,
		ScheduledAt:     *req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		MeetingLink:     req.MeetingLink,
	}
	ctx := c.Request().Context()
	if err := h.Interviews.Create(ctx, &iv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create interview failed"})
	}
	recordAudit(ctx, h.Audits, uid, "interview", iv.ID, "create", echo.Map{"application_id": req.ApplicationID, "interviewer_id": req.InterviewerID})
	return c.JSON(http.StatusCreated, iv)
}

func (h *InterviewHandler) List(c echo.Context) error {
	out, err := h.Interviews.List(c.Request().Context(), queryID(c, "application_id"), queryID(c, "cycle_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list interviews failed"})
	}
	if out == nil {
		out = []*repository.Interview{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InterviewHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	iv, err := h.Interviews.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "interview not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get interview failed"})
	}
	return c.JSON(http.StatusOK, iv)
}

func (h *InterviewHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req interviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != "" && !interviewStatuses[req.Status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx := c.Request().Context()
	iv, err := h.Interviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "interview not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get interview failed"})
	}

	if req.ScheduledAt != nil {
		iv.ScheduledAt = *req.ScheduledAt
	}
	if req.DurationMinutes > 0 {
		iv.DurationMinutes = req.DurationMinutes
	}
	if req.MeetingLink != "" {
		iv.MeetingLink = req.MeetingLink
	}
	if req.Notes != "" {
		iv.Notes = req.Notes
	}
	if req.Status != "" {
		iv.Status = req.Status
	}

	if err := h.Interviews.Update(ctx, iv); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "interview not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update interview failed"})
	}
	recordAudit(ctx, h.Audits, uid, "interview", id, "update", echo.Map{"status": iv.Status})
	return c.JSON(http.StatusOK, iv)
}

func (h *InterviewHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Interviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "interview not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete interview failed"})
	}
	recordAudit(ctx, h.Audits, uid, "interview", id, "delete", nil)
	return c.NoContent(http.StatusNoContent)
}
