package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hireflow/recruitment-api/internal/repository"
)

// ReviewHandler serves the application review endpoints.  The reviewer is
// always the authenticated caller; review authorship cannot be reassigned.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Audits  *repository.AuditRepo
}

func NewReviewHandler(r *repository.ReviewRepo, a *repository.AuditRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Audits: a}
}

type reviewReq struct {
	ApplicationID uint64 `json:"application_id"`
	Score         *int   `json:"score"`
	Feedback      string `json:"feedback"`
}

func validScore(s int) bool { return s >= 0 && s <= 100 }

func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ApplicationID == 0 || req.Score == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "application_id and score required"})
	}
	if !validScore(*req.Score) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 0 and 100"})
	}

	v := repository.Review{
		ApplicationID: req.ApplicationID,
		ReviewerID:    uid,
		Score:         *req.Score,
		Feedback:      req.Feedback,
	}
	ctx := c.Request().Context()
	if err := h.Reviews.Create(ctx, &v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	recordAudit(ctx, h.Audits, uid, "review", v.ID, "create", echo.Map{"application_id": req.ApplicationID, "score": *req.Score})
	return c.JSON(http.StatusCreated, v)
}

func (h *ReviewHandler) List(c echo.Context) error {
	out, err := h.Reviews.List(c.Request().Context(), queryID(c, "application_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reviews failed"})
	}
	if out == nil {
		out = []*repository.Review{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.Reviews.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get review failed"})
	}
	return c.JSON(http.StatusOK, v)
}

func (h *ReviewHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Score == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score required"})
	}
	if !validScore(*req.Score) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "score must be between 0 and 100"})
	}

	ctx := c.Request().Context()
	v, err := h.Reviews.Update(ctx, id, *req.Score, req.Feedback)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update review failed"})
	}
	recordAudit(ctx, h.Audits, uid, "review", id, "update", echo.Map{"score": *req.Score})
	return c.JSON(http.StatusOK, v)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete review failed"})
	}
	recordAudit(ctx, h.Audits, uid, "review", id, "delete", nil)
	return c.NoContent(http.StatusNoContent)
}
