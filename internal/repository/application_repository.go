// This file defines the Application model and repository.  Applications
// arrive through the public submission endpoint, so rows exist without any
// authenticated creator; reviewers later move them through the status
// pipeline.
package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "strings"
    "time"
)

// Application represents a row of the applications table.  FormResponses
// holds the applicant's answers keyed by field id, stored as JSON.
type Application struct {
    ID             uint64          `json:"id"`
    FormID         uint64          `json:"form_id"`
    CycleID        uint64          `json:"cycle_id"`
    ApplicantEmail string          `json:"applicant_email"`
    ApplicantName  string          `json:"applicant_name"`
    FormResponses  json.RawMessage `json:"form_responses"`
    Status         string          `json:"status"`
    CreatedAt      time.Time       `json:"created_at"`
    UpdatedAt      time.Time       `json:"updated_at"`
}

// ApplicationStatuses enumerates the accepted application status values.
var ApplicationStatuses = map[string]bool{
    "submitted":    true,
    "under_review": true,
    "shortlisted":  true,
    "rejected":     true,
    "accepted":     true,
}

type ApplicationRepo struct {
    db *sql.DB
}

func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{db: db} }

const applicationColumns = "id, form_id, cycle_id, applicant_email, applicant_name, form_responses, status, created_at, updated_at"

func scanApplication(row interface{ Scan(...any) error }) (*Application, error) {
    var a Application
    var responses []byte
    err := row.Scan(&a.ID, &a.FormID, &a.CycleID, &a.ApplicantEmail, &a.ApplicantName,
        &responses, &a.Status, &a.CreatedAt, &a.UpdatedAt)
    if err != nil {
        return nil, err
    }
    a.FormResponses = json.RawMessage(responses)
    return &a, nil
}

// Create inserts a submission with status "submitted".  No caller identity
// is involved; this is the one unauthenticated write in the system.
func (r *ApplicationRepo) Create(ctx context.Context, a *Application) error {
    a.ApplicantEmail = strings.ToLower(strings.TrimSpace(a.ApplicantEmail))
    const q = `INSERT INTO applications (form_id, cycle_id, applicant_email, applicant_name, form_responses, status)
               VALUES (?, ?, ?, ?, ?, 'submitted')`
    res, err := r.db.ExecContext(ctx, q, a.FormID, a.CycleID, a.ApplicantEmail, a.ApplicantName, []byte(a.FormResponses))
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
    *a = *got
    return nil
}

// GetByID fetches an application by id.
func (r *ApplicationRepo) GetByID(ctx context.Context, id uint64) (*Application, error) {
    a, err := scanApplication(r.db.QueryRowContext(ctx,
        "SELECT "+applicationColumns+" FROM applications WHERE id = ?", id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return a, err
}

// List returns applications filtered by cycle and/or form (0 disables a
// filter), newest first.
func (r *ApplicationRepo) List(ctx context.Context, cycleID, formID uint64) ([]*Application, error) {
    q := "SELECT " + applicationColumns + " FROM applications"
    var conds []string
    var args []any
    if cycleID != 0 {
        conds = append(conds, "cycle_id = ?")
        args = append(args, cycleID)
    }
    if formID != 0 {
        conds = append(conds, "form_id = ?")
        args = append(args, formID)
    }
    if len(conds) > 0 {
        q += " WHERE " + strings.Join(conds, " AND ")
    }
    q += " ORDER BY created_at DESC"

    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*Application
    for rows.Next() {
        a, err := scanApplication(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, a)
    }
    return out, rows.Err()
}

// ListEmailsByCycle returns the applicant emails for every application in a
// cycle.  Campaign send uses this to synthesize one log row per recipient.
func (r *ApplicationRepo) ListEmailsByCycle(ctx context.Context, cycleID uint64) ([]string, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT applicant_email FROM applications WHERE cycle_id = ?", cycleID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []string
    for rows.Next() {
        var email string
        if err := rows.Scan(&email); err != nil {
            return nil, err
        }
        out = append(out, email)
    }
    return out, rows.Err()
}

// UpdateStatus moves an application through the review pipeline.  Only the
// status column is mutable after submission.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id uint64, status string) (*Application, error) {
    res, err := r.db.ExecContext(ctx,
        "UPDATE applications SET status = ?, updated_at = NOW() WHERE id = ?", status, id)
    if err != nil {
        return nil, err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return nil, ErrNotFound
    }
    return r.GetByID(ctx, id)
}
