package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing

	"github.com/hireflow/recruitment-api/internal/handler"
	"github.com/hireflow/recruitment-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; the authenticated
// profile endpoint lives under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a JSON body with the refresh_token to invalidate; it
	// does not require a valid access token.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated applicant-facing routes:
// loading a published form and submitting an application.  No JWT or
// permission middleware is applied, so candidates never need an account.
func RegisterPublic(e *echo.Echo, f *handler.FormHandler, ap *handler.ApplicationHandler, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/forms/:id", f.Get, cache)
	} else {
		e.GET("/v1/forms/:id", f.Get)
	}
	e.POST("/v1/applications", ap.Create)
}
