// This file defines the EmailCampaign and EmailLog models and their
// repository.  Sending a campaign does not contact a mail transport: it
// synthesizes one log row per applicant in the campaign's cycle, already
// marked "sent", and flips the campaign status inside one transaction.
package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "time"
)

// EmailCampaign represents a row of email_campaigns.  RecipientFilter is
// stored and returned verbatim; the send path addresses every applicant in
// the cycle regardless of its contents.
type EmailCampaign struct {
    ID              uint64          `json:"id"`
    CycleID         uint64          `json:"cycle_id"`
    Name            string          `json:"name"`
    Subject         string          `json:"subject"`
    TemplateHTML    string          `json:"template_html"`
    RecipientFilter json.RawMessage `json:"recipient_filter"`
    Status          string          `json:"status"`
    SentAt          *time.Time      `json:"sent_at,omitempty"`
    CreatedBy       uint64          `json:"created_by"`
    CreatedAt       time.Time       `json:"created_at"`
    UpdatedAt       time.Time       `json:"updated_at"`
}

// EmailLog represents a row of email_logs.  The schema admits a "bounced"
// status but nothing in the send path ever produces it.
type EmailLog struct {
    ID             uint64     `json:"id"`
    CampaignID     uint64     `json:"campaign_id"`
    RecipientEmail string     `json:"recipient_email"`
    Subject        string     `json:"subject"`
    Status         string     `json:"status"`
    SentAt         *time.Time `json:"sent_at,omitempty"`
    CreatedAt      time.Time  `json:"created_at"`
}

type CampaignRepo struct {
    db *sql.DB
}

func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

const campaignColumns = "id, cycle_id, name, subject, template_html, recipient_filter, status, sent_at, created_by, created_at, updated_at"

func scanCampaign(row interface{ Scan(...any) error }) (*EmailCampaign, error) {
    var c EmailCampaign
    var filter []byte
    var sentAt sql.NullTime
    err := row.Scan(&c.ID, &c.CycleID, &c.Name, &c.Subject, &c.TemplateHTML,
        &filter, &c.Status, &sentAt, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        return nil, err
    }
    c.RecipientFilter = json.RawMessage(filter)
    if sentAt.Valid {
        t := sentAt.Time
        c.SentAt = &t
    }
    return &c, nil
}

// Create inserts a draft campaign and reloads the stored row.
func (r *CampaignRepo) Create(ctx context.Context, c *EmailCampaign) error {
    const q = `INSERT INTO email_campaigns (cycle_id, name, subject, template_html, recipient_filter, status, created_by)
               VALUES (?, ?, ?, ?, ?, 'draft', ?)`
    res, err := r.db.ExecContext(ctx, q, c.CycleID, c.Name, c.Subject, c.TemplateHTML, []byte(c.RecipientFilter), c.CreatedBy)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    got, err := r.GetByID(ctx, uint64(id))
    if err != nil {
        return err
    }
    *c = *got
    return nil
}

// GetByID fetches a campaign by id.
func (r *CampaignRepo) GetByID(ctx context.Context, id uint64) (*EmailCampaign, error) {
    c, err := scanCampaign(r.db.QueryRowContext(ctx,
        "SELECT "+campaignColumns+" FROM email_campaigns WHERE id = ?", id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return c, err
}

// List returns campaigns, optionally scoped to one cycle, newest first.
func (r *CampaignRepo) List(ctx context.Context, cycleID uint64) ([]*EmailCampaign, error) {
    q := "SELECT " + campaignColumns + " FROM email_campaigns"
    args := []any{}
    if cycleID != 0 {
        q += " WHERE cycle_id = ?"
        args = append(args, cycleID)
    }
    q += " ORDER BY created_at DESC"

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*EmailCampaign
    for rows.Next() {
        c, err := scanCampaign(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// Update rewrites the editable fields of a campaign.
func (r *CampaignRepo) Update(ctx context.Context, c *EmailCampaign) error {
    const q = `UPDATE email_campaigns
               SET name = ?, subject = ?, template_html = ?, recipient_filter = ?, updated_at = NOW()
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, c.Name, c.Subject, c.TemplateHTML, []byte(c.RecipientFilter), c.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrNotFound
    }
    got, err := r.GetByID(ctx, c.ID)
    if err != nil {
        return err
    }
    *c = *got
    return nil
}

// Delete removes a campaign row.
func (r *CampaignRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM email_campaigns WHERE id = ?", id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrNotFound
    }
    return nil
}

// MarkSent writes one "sent" log row per recipient and flips the campaign
// to status sent, all inside a transaction.  There is no idempotence guard:
// calling this twice for the same campaign doubles the log rows and simply
// rewrites sent_at.  It returns the number of recipients written.
func (r *CampaignRepo) MarkSent(ctx context.Context, campaignID uint64, subject string, recipients []string) (int, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        }
    }()

    now := time.Now().UTC()
    for _, email := range recipients {
        if _, err = tx.ExecContext(ctx,
            `INSERT INTO email_logs (campaign_id, recipient_email, subject, status, sent_at) VALUES (?, ?, ?, 'sent', ?)`,
            campaignID, email, subject, now); err != nil {
            return 0, err
        }
    }
    if _, err = tx.ExecContext(ctx,
        `UPDATE email_campaigns SET status = 'sent', sent_at = ?, updated_at = NOW() WHERE id = ?`,
        now, campaignID); err != nil {
        return 0, err
    }
    // A failed COMMIT means nothing was durably written; only after it
    // succeeds may the send be reported to the caller.
    if err = tx.Commit(); err != nil {
        return 0, err
    }
    return len(recipients), nil
}

// ListLogs returns email logs, optionally scoped to one campaign, newest
// first.
func (r *CampaignRepo) ListLogs(ctx context.Context, campaignID uint64) ([]*EmailLog, error) {
    q := "SELECT id, campaign_id, recipient_email, subject, status, sent_at, created_at FROM email_logs"
    args := []any{}
    if campaignID != 0 {
        q += " WHERE campaign_id = ?"
        args = append(args, campaignID)
    }
    q += " ORDER BY created_at DESC"

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*EmailLog
    for rows.Next() {
        var l EmailLog
        var sentAt sql.NullTime
        if err := rows.Scan(&l.ID, &l.CampaignID, &l.RecipientEmail, &l.Subject, &l.Status, &sentAt, &l.CreatedAt); err != nil {
            return nil, err
        }
        if sentAt.Valid {
            t := sentAt.Time
            l.SentAt = &t
        }
        out = append(out, &l)
    }
    return out, rows.Err()
}
