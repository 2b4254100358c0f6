package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hireflow/recruitment-api/internal/queue"
	"github.com/hireflow/recruitment-api/internal/repository"
	queuepublisher "github.com/hireflow/recruitment-api/internal/service"
)

// CampaignHandler serves the email campaign endpoints.  Send does not
// contact a mail transport: it writes one already-"sent" log row per
// applicant in the campaign's cycle and flips the campaign status, then
// publishes a campaign.sent event for the background consumer.
type CampaignHandler struct {
	Campaigns    *repository.CampaignRepo
	Applications *repository.ApplicationRepo
	Audits       *repository.AuditRepo
}

func NewCampaignHandler(c *repository.CampaignRepo, ap *repository.ApplicationRepo, au *repository.AuditRepo) *CampaignHandler {
	return &CampaignHandler{Campaigns: c, Applications: ap, Audits: au}
}

type campaignReq struct {
	CycleID         uint64          `json:"cycle_id"`
	Name            string          `json:"name"`
	Subject         string          `json:"subject"`
	TemplateHTML    string          `json:"template_html"`
	RecipientFilter json.RawMessage `json:"recipient_filter"`
}

func (h *CampaignHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req campaignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CycleID == 0 || req.Name == "" || req.Subject == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cycle_id, name and subject required"})
	}
	if len(req.RecipientFilter) == 0 {
		req.RecipientFilter = json.RawMessage("{}")
	}

	camp := repository.EmailCampaign{
		CycleID:         req.CycleID,
		Name:            req.Name,
		Subject:         req.Subject,
		TemplateHTML:    req.TemplateHTML,
		RecipientFilter: req.RecipientFilter,
		CreatedBy:       uid,
	}
	ctx := c.Request().Context()
	if err := h.Campaigns.Create(ctx, &camp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create campaign failed"})
	}
	recordAudit(ctx, h.Audits, uid, "email_campaign", camp.ID, "create", echo.Map{"cycle_id": req.CycleID, "name": req.Name})
	return c.JSON(http.StatusCreated, camp)
}

func (h *CampaignHandler) List(c echo.Context) error {
	out, err := h.Campaigns.List(c.Request().Context(), queryID(c, "cycle_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list campaigns failed"})
	}
	if out == nil {
		out = []*repository.EmailCampaign{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CampaignHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	camp, err := h.Campaigns.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get campaign failed"})
	}
	return c.JSON(http.StatusOK, camp)
}

func (h *CampaignHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req campaignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	camp, err := h.Campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get campaign failed"})
	}

	if req.Name != "" {
		camp.Name = req.Name
	}
	if req.Subject != "" {
		camp.Subject = req.Subject
	}
	if req.TemplateHTML != "" {
		camp.TemplateHTML = req.TemplateHTML
	}
	if len(req.RecipientFilter) > 0 {
		camp.RecipientFilter = req.RecipientFilter
	}

	if err := h.Campaigns.Update(ctx, camp); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update campaign failed"})
	}
	recordAudit(ctx, h.Audits, uid, "email_campaign", id, "update", echo.Map{"name": camp.Name})
	return c.JSON(http.StatusOK, camp)
}

func (h *CampaignHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if err := h.Campaigns.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete campaign failed"})
	}
	recordAudit(ctx, h.Audits, uid, "email_campaign", id, "delete", nil)
	return c.NoContent(http.StatusNoContent)
}

// Send addresses every applicant in the campaign's cycle.  There is no
// idempotence guard: sending the same campaign twice doubles the log rows.
func (h *CampaignHandler) Send(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	camp, err := h.Campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get campaign failed"})
	}

	recipients, err := h.Applications.ListEmailsByCycle(ctx, camp.CycleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load recipients failed"})
	}

	n, err := h.Campaigns.MarkSent(ctx, camp.ID, camp.Subject, recipients)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send campaign failed"})
	}

	// Best effort: the send already succeeded, a publish failure only
	// costs the file-log mirror.
	ev := queue.CampaignSentEvent{
		CampaignID:   camp.ID,
		CycleID:      camp.CycleID,
		CampaignName: camp.Name,
		Subject:      camp.Subject,
		Recipients:   recipients,
		SentBy:       uid,
		SentAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := queuepublisher.PublishCampaignSent(ctx, ev); err != nil {
		log.Printf("campaign %d: publish campaign.sent failed: %v", camp.ID, err)
	}

	recordAudit(ctx, h.Audits, uid, "email_campaign", id, "send", echo.Map{"recipients": n})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "recipients": n})
}

// ListLogs returns email log rows, optionally filtered by campaign_id.
func (h *CampaignHandler) ListLogs(c echo.Context) error {
	out, err := h.Campaigns.ListLogs(c.Request().Context(), queryID(c, "campaign_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list email logs failed"})
	}
	if out == nil {
		out = []*repository.EmailLog{}
	}
	return c.JSON(http.StatusOK, out)
}
