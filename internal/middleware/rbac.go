package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/hireflow/recruitment-api/internal/auth"
)

// RequirePermission returns a middleware that enforces a named capability.
// It assumes JWTAuth already ran and stored the caller's role under the
// "role" context key.  A missing or unrecognized role is denied (fail
// closed).  This is the single enforcement mechanism for every protected
// route; rank comparison is never consulted here.
func RequirePermission(perm auth.Permission) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := RoleFromContext(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            if !auth.HasPermission(role, perm) {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}

// RoleFromContext reads the role claim placed in the context by JWTAuth.
// The second return value is false when no authenticated role is present.
func RoleFromContext(c echo.Context) (auth.Role, bool) {
    v := c.Get("role")
    s, ok := v.(string)
    if !ok || s == "" {
        return "", false
    }
    return auth.Role(s), true
}
