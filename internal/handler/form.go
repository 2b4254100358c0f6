package handler

import (
    "encoding/json"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/hireflow/recruitment-api/internal/repository"
)

// FormHandler serves the application-form endpoints.  Get is deliberately
// public so applicants can load a form without signing in.
type FormHandler struct {
    Forms  *repository.FormRepo
    Audits *repository.AuditRepo
}

func NewFormHandler(f *repository.FormRepo, a *repository.AuditRepo) *FormHandler {
    return &FormHandler{Forms: f, Audits: a}
}

type formReq struct {
    CycleID     uint64          `json:"cycle_id"`
    Title       string          `json:"title"`
    Description string          `json:"description"`
    FormSchema  json.RawMessage `json:"form_schema"`
    IsPublished *bool           `json:"is_published"`
}

func (h *FormHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req formReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.CycleID == 0 || req.Title == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cycle_id and title required"})
    }
    if len(req.FormSchema) == 0 {
        req.FormSchema = json.RawMessage("[]")
    }

    f := repository.Form{
        CycleID:     req.CycleID,
        Title:       req.Title,
        Description: req.Description,
        FormSchema:  req.FormSchema,
        CreatedBy:   uid,
    }
    ctx := c.Request().Context()
    if err := h.Forms.Create(ctx, &f); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create form failed"})
    }
    recordAudit(ctx, h.Audits, uid, "form", f.ID, "create", echo.Map{"cycle_id": req.CycleID, "title": req.Title})
    return c.JSON(http.StatusCreated, f)
}

func (h *FormHandler) List(c echo.Context) error {
    out, err := h.Forms.List(c.Request().Context(), queryID(c, "cycle_id"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list forms failed"})
    }
    if out == nil {
        out = []*repository.Form{}
    }
    return c.JSON(http.StatusOK, out)
}

// Get is registered on the public router group.  Publication gates
// applicant visibility: an unpublished form is indistinguishable from a
// missing one.
func (h *FormHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    f, err := h.Forms.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "form not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get form failed"})
    }
    if !f.IsPublished {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "form not found"})
    }
    return c.JSON(http.StatusOK, f)
}

func (h *FormHandler) Update(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req formReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx := c.Request().Context()
    f, err := h.Forms.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "form not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get form failed"})
    }

    if req.Title != "" {
        f.Title = req.Title
    }
    if req.Description != "" {
        f.Description = req.Description
    }
    if len(req.FormSchema) > 0 {
        f.FormSchema = req.FormSchema
    }
    if req.IsPublished != nil {
        f.IsPublished = *req.IsPublished
    }

    if err := h.Forms.Update(ctx, f); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "form not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update form failed"})
    }
    recordAudit(ctx, h.Audits, uid, "form", id, "update", echo.Map{"title": f.Title, "is_published": f.IsPublished})
    return c.JSON(http.StatusOK, f)
}

func (h *FormHandler) Delete(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    if err := h.Forms.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "form not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete form failed"})
    }
    recordAudit(ctx, h.Audits, uid, "form", id, "delete", nil)
    return c.NoContent(http.StatusNoContent)
}
