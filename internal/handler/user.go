package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hireflow/recruitment-api/internal/auth"
	"github.com/hireflow/recruitment-api/internal/config"
	"github.com/hireflow/recruitment-api/internal/middleware"
	"github.com/hireflow/recruitment-api/internal/repository"
	"github.com/hireflow/recruitment-api/internal/utils"
)

// UserHandler serves the user management endpoints.  These are reserved
// for the manage_users permission; assigning admin-level roles further
// requires manage_admins.
type UserHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Audits *repository.AuditRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, a *repository.AuditRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Audits: a}
}

type provisionReq struct {
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Role       auth.Role `json:"role"`
	Department string    `json:"department"`
	Phone      string    `json:"phone"`
}

type userUpdateReq struct {
	FullName   string    `json:"full_name"`
	Role       auth.Role `json:"role"`
	Department string    `json:"department"`
	Phone      string    `json:"phone"`
	IsActive   *bool     `json:"is_active"`
}

// canAssign reports whether the caller may hand out the target role.
// Admin-level roles need the manage_admins permission on top of
// manage_users.
func canAssign(c echo.Context, target auth.Role) bool {
	if target != auth.RoleAdmin && target != auth.RoleSuperAdmin {
		return true
	}
	role, ok := middleware.RoleFromContext(c)
	return ok && auth.HasPermission(role, auth.PermManageAdmins)
}

// Provision creates a fully specified account with a generated initial
// password.  The password is returned once in the response; it is never
// retrievable afterwards.
func (h *UserHandler) Provision(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req provisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and full_name required"})
	}
	if req.Role == "" {
		req.Role = auth.RoleUser
	}
	if !auth.Valid(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	if !canAssign(c, req.Role) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions to assign this role"})
	}

	initialPassword := uuid.NewString()
	hash, err := utils.HashPassword(initialPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	u := repository.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		Department:   req.Department,
		Phone:        req.Phone,
	}
	ctx := c.Request().Context()
	if err := h.Users.Provision(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	recordAudit(ctx, h.Audits, uid, "user", u.ID, "create", echo.Map{"email": req.Email, "role": req.Role})

	return c.JSON(http.StatusCreated, echo.Map{
		"user":             u,
		"initial_password": initialPassword,
	})
}

func (h *UserHandler) List(c echo.Context) error {
	out, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}
	if out == nil {
		out = []repository.User{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get user failed"})
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get user failed"})
	}

	if req.FullName != "" {
		u.FullName = req.FullName
	}
	if req.Role != "" {
		if !auth.Valid(req.Role) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
		if !canAssign(c, req.Role) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions to assign this role"})
		}
		u.Role = req.Role
	}
	if req.Department != "" {
		u.Department = req.Department
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := h.Users.Update(ctx, id, u.FullName, u.Role, u.Department, u.Phone, u.IsActive); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	recordAudit(ctx, h.Audits, uid, "user", id, "update", echo.Map{"role": u.Role, "is_active": u.IsActive})

	u, err = h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload user failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// Delete deactivates the account.  The row is preserved so audit history
// and past reviews keep resolving to a real user.
func (h *UserHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Users.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	recordAudit(ctx, h.Audits, uid, "user", id, "delete", nil)
	return c.NoContent(http.StatusNoContent)
}
