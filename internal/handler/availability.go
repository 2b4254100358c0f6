package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hireflow/recruitment-api/internal/auth"
	"github.com/hireflow/recruitment-api/internal/middleware"
	"github.com/hireflow/recruitment-api/internal/repository"
)

// AvailabilityHandler serves the interviewer availability endpoints.
// Slots are self-scoped: a caller manages their own slots, while admins
// and above can see and manage everyone's.
type AvailabilityHandler struct {
	Slots  *repository.AvailabilityRepo
	Audits *repository.AuditRepo
}

func NewAvailabilityHandler(s *repository.AvailabilityRepo, a *repository.AuditRepo) *AvailabilityHandler {
	return &AvailabilityHandler{Slots: s, Audits: a}
}

type slotReq struct {
	UserID      uint64     `json:"user_id"`
	CycleID     uint64     `json:"cycle_id"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	IsAvailable *bool      `json:"is_available"`
}

// isAdmin reports whether the caller holds admin rank or above.
func isAdmin(c echo.Context) bool {
	role, ok := middleware.RoleFromContext(c)
	return ok && auth.HasRole(role, auth.RoleAdmin)
}

func (h *AvailabilityHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req slotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CycleID == 0 || req.StartTime == nil || req.EndTime == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cycle_id, start_time and end_time required"})
	}
	if !req.EndTime.After(*req.StartTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}

	// Slots belong to the caller unless an admin creates one on behalf of
	// another user.
	owner := uid
	if req.UserID != 0 && req.UserID != uid {
		if !isAdmin(c) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot create slots for another user"})
		}
		owner = req.UserID
	}

	s := repository.AvailabilitySlot{
		UserID:    owner,
		CycleID:   req.CycleID,
		StartTime: *req.StartTime,
		EndTime:   *req.EndTime,
	}
	ctx := c.Request().Context()
	if err := h.Slots.Create(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slot failed"})
	}
	recordAudit(ctx, h.Audits, uid, "availability_slot", s.ID, "create", echo.Map{"user_id": owner, "cycle_id": req.CycleID})
	return c.JSON(http.StatusCreated, s)
}

// List returns the caller's own slots; admins may pass user_id to see
// anyone's, or omit it to see all slots.
func (h *AvailabilityHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	userFilter := queryID(c, "user_id")
	if !isAdmin(c) {
		userFilter = uid
	}
	out, err := h.Slots.List(c.Request().Context(), userFilter, queryID(c, "cycle_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list slots failed"})
	}
	if out == nil {
		out = []*repository.AvailabilitySlot{}
	}
	return c.JSON(http.StatusOK, out)
}

// Update flips the availability flag on a slot the caller owns (or any
// slot, for admins).
func (h *AvailabilityHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req slotReq
	if err := c.Bind(&req); err != nil || req.IsAvailable == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_available required"})
	}

	ctx := c.Request().Context()
	s, err := h.Slots.GetOwned(ctx, id, uid, isAdmin(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your slot"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get slot failed"})
	}

	s, err = h.Slots.SetAvailable(ctx, s.ID, *req.IsAvailable)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update slot failed"})
	}
	recordAudit(ctx, h.Audits, uid, "availability_slot", id, "update", echo.Map{"is_available": *req.IsAvailable})
	return c.JSON(http.StatusOK, s)
}

func (h *AvailabilityHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	if _, err := h.Slots.GetOwned(ctx, id, uid, isAdmin(c)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your slot"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get slot failed"})
	}

	if err := h.Slots.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete slot failed"})
	}
	recordAudit(ctx, h.Audits, uid, "availability_slot", id, "delete", nil)
	return c.NoContent(http.StatusNoContent)
}
