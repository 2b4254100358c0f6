package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hireflow/recruitment-api/internal/auth"
	"github.com/hireflow/recruitment-api/internal/handler"
	"github.com/hireflow/recruitment-api/internal/middleware"
)

// ResourceHandlers bundles every authenticated resource handler so the
// registration function does not take a dozen parameters.
type ResourceHandlers struct {
	Cycles       *handler.CycleHandler
	Forms        *handler.FormHandler
	Applications *handler.ApplicationHandler
	Reviews      *handler.ReviewHandler
	Interviews   *handler.InterviewHandler
	Availability *handler.AvailabilityHandler
	Campaigns    *handler.CampaignHandler
	Users        *handler.UserHandler
	Audits       *handler.AuditHandler
}

// RegisterResources registers every authenticated resource route under /v1.
// Reads need only a resolved identity (JWTAuth on the group), with two
// exceptions: user listings and the audit trail stay behind their
// permissions.  Writes each carry exactly one permission; handlers add
// finer in-scope checks (slot ownership, role assignment) where needed.
func RegisterResources(e *echo.Echo, h ResourceHandlers, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	perm := middleware.RequirePermission

	// Recruitment cycles.  Any authenticated caller may read; deletion is
	// reserved for the top role.
	g.POST("/cycles", h.Cycles.Create, perm(auth.PermManageCycles))
	g.GET("/cycles", h.Cycles.List)
	g.GET("/cycles/:id", h.Cycles.Get)
	g.PUT("/cycles/:id", h.Cycles.Update, perm(auth.PermManageCycles))
	g.DELETE("/cycles/:id", h.Cycles.Delete, perm(auth.PermDeleteCycles))

	// Forms.  Reading a single published form is public (see
	// RegisterPublic); the management surface sits behind manage_forms.
	g.POST("/forms", h.Forms.Create, perm(auth.PermManageForms))
	g.GET("/forms", h.Forms.List)
	g.PUT("/forms/:id", h.Forms.Update, perm(auth.PermManageForms))
	g.DELETE("/forms/:id", h.Forms.Delete, perm(auth.PermManageForms))

	// Applications.  Creation is public; status changes need the
	// management permission.
	g.GET("/applications", h.Applications.List)
	g.GET("/applications/:id", h.Applications.Get)
	g.PUT("/applications/:id", h.Applications.UpdateStatus, perm(auth.PermManageApplications))

	// Reviews.  Writing one is committee work; reading is open.
	g.POST("/reviews", h.Reviews.Create, perm(auth.PermReviewApplications))
	g.GET("/reviews", h.Reviews.List)
	g.GET("/reviews/:id", h.Reviews.Get)
	g.PUT("/reviews/:id", h.Reviews.Update, perm(auth.PermReviewApplications))
	g.DELETE("/reviews/:id", h.Reviews.Delete, perm(auth.PermReviewApplications))

	// Interviews.  Writes need the management permission.
	g.POST("/interviews", h.Interviews.Create, perm(auth.PermManageInterviews))
	g.GET("/interviews", h.Interviews.List)
	g.GET("/interviews/:id", h.Interviews.Get)
	g.PUT("/interviews/:id", h.Interviews.Update, perm(auth.PermManageInterviews))
	g.DELETE("/interviews/:id", h.Interviews.Delete, perm(auth.PermManageInterviews))

	// Availability slots are self-managed: every authenticated caller may
	// maintain their own, and the handlers scope reads and writes to the
	// owner (admins and above can cross that line).
	g.POST("/availability", h.Availability.Create)
	g.GET("/availability", h.Availability.List)
	g.PUT("/availability/:id", h.Availability.Update)
	g.DELETE("/availability/:id", h.Availability.Delete)

	// Email campaigns and logs.
	g.POST("/campaigns", h.Campaigns.Create, perm(auth.PermSendEmails))
	g.GET("/campaigns", h.Campaigns.List, perm(auth.PermSendEmails))
	g.GET("/campaigns/:id", h.Campaigns.Get, perm(auth.PermSendEmails))
	g.PUT("/campaigns/:id", h.Campaigns.Update, perm(auth.PermSendEmails))
	g.DELETE("/campaigns/:id", h.Campaigns.Delete, perm(auth.PermSendEmails))
	g.POST("/campaigns/:id/send", h.Campaigns.Send, perm(auth.PermSendEmails))
	g.GET("/email-logs", h.Campaigns.ListLogs, perm(auth.PermSendEmails))

	// User management.
	g.POST("/users", h.Users.Provision, perm(auth.PermManageUsers))
	g.GET("/users", h.Users.List, perm(auth.PermManageUsers))
	g.GET("/users/:id", h.Users.Get, perm(auth.PermManageUsers))
	g.PUT("/users/:id", h.Users.Update, perm(auth.PermManageUsers))
	g.DELETE("/users/:id", h.Users.Delete, perm(auth.PermManageUsers))

	// Audit trail, read-only.
	g.GET("/audit-logs", h.Audits.List, perm(auth.PermViewAuditLogs))
}
