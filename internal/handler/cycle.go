package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/hireflow/recruitment-api/internal/repository"
)

// CycleHandler serves the recruitment cycle CRUD endpoints.
type CycleHandler struct {
    Cycles *repository.CycleRepo
    Audits *repository.AuditRepo
}

func NewCycleHandler(c *repository.CycleRepo, a *repository.AuditRepo) *CycleHandler {
    return &CycleHandler{Cycles: c, Audits: a}
}

type cycleReq struct {
    Name        string `json:"name"`
    Description string `json:"description"`
    StartDate   string `json:"start_date"`
    EndDate     string `json:"end_date"`
    Status      string `json:"status"`
}

func (h *CycleHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req cycleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Name == "" || req.StartDate == "" || req.EndDate == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, start_date and end_date required"})
    }

    cyc := repository.RecruitmentCycle{
        Name:        req.Name,
        Description: req.Description,
        StartDate:   req.StartDate,
        EndDate:     req.EndDate,
        CreatedBy:   uid,
    }
    ctx := c.Request().Context()
    if err := h.Cycles.Create(ctx, &cyc); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create cycle failed"})
    }
    recordAudit(ctx, h.Audits, uid, "cycle", cyc.ID, "create", req)
    return c.JSON(http.StatusCreated, cyc)
}

func (h *CycleHandler) List(c echo.Context) error {
    out, err := h.Cycles.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list cycles failed"})
    }
    if out == nil {
        out = []*repository.RecruitmentCycle{}
    }
    return c.JSON(http.StatusOK, out)
}

func (h *CycleHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    cyc, err := h.Cycles.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "cycle not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get cycle failed"})
    }
    return c.JSON(http.StatusOK, cyc)
}

func (h *CycleHandler) Update(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req cycleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Status != "" && !repository.CycleStatuses[req.Status] {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }

    ctx := c.Request().Context()
    cyc, err := h.Cycles.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "cycle not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get cycle failed"})
    }

    // Partial update: empty fields keep their stored values.
    if req.Name != "" {
        cyc.Name = req.Name
    }
    if req.Description != "" {
        cyc.Description = req.Description
    }
    if req.StartDate != "" {
        cyc.StartDate = req.StartDate
    }
    if req.EndDate != "" {
        cyc.EndDate = req.EndDate
    }
    if req.Status != "" {
        cyc.Status = req.Status
    }

    if err := h.Cycles.Update(ctx, cyc); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "cycle not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cycle failed"})
    }
    recordAudit(ctx, h.Audits, uid, "cycle", id, "update", req)
    return c.JSON(http.StatusOK, cyc)
}

func (h *CycleHandler) Delete(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    if err := h.Cycles.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "cycle not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete cycle failed"})
    }
    recordAudit(ctx, h.Audits, uid, "cycle", id, "delete", nil)
    return c.NoContent(http.StatusNoContent)
}
