package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Interview mirrors the 'interviews' table.
type Interview struct {
	ID              uint64    `json:"id"`
	ApplicationID   uint64    `json:"application_id"`
	InterviewerID   uint64    `json:"interviewer_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	MeetingLink     string    `json:"meeting_link"`
	Notes           string    `json:"notes"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type InterviewRepo struct{ DB *sql.DB }

func NewInterviewRepo(db *sql.DB) *InterviewRepo { return &InterviewRepo{DB: db} }

const interviewColumns = "id, application_id, interviewer_id, scheduled_at, duration_minutes, meeting_link, notes, status, created_at, updated_at"

func scanInterview(row interface{ Scan(...any) error }) (*Interview, error) {
	var iv Interview
	err := row.Scan(&iv.ID, &iv.ApplicationID, &iv.InterviewerID, &iv.ScheduledAt,
		&iv.DurationMinutes, &iv.MeetingLink, &iv.Notes, &iv.Status, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// Create inserts an interview with status "scheduled".
func (r *InterviewRepo) Create(ctx context.Context, iv *Interview) error {
	const q = `INSERT INTO interviews (application_id, interviewer_id, scheduled_at, duration_minutes, meeting_link, status)
	           VALUES (?, ?, ?, ?, ?, 'scheduled')`
	res, err := r.DB.ExecContext(ctx, q, iv.ApplicationID, iv.InterviewerID, iv.ScheduledAt, iv.DurationMinutes, iv.MeetingLink)
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
	*iv = *got
	return nil
}

// GetByID fetches an interview by id.
func (r *InterviewRepo) GetByID(ctx context.Context, id uint64) (*Interview, error) {
	iv, err := scanInterview(r.DB.QueryRowContext(ctx,
		"SELECT "+interviewColumns+" FROM interviews WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return iv, err
}

// List returns interviews ordered by schedule time, earliest first.
// applicationID filters directly; cycleID filters through a secondary
// lookup against applications belonging to that cycle.  0 disables either.
func (r *InterviewRepo) List(ctx context.Context, applicationID, cycleID uint64) ([]*Interview, error) {
	q := "SELECT " + interviewColumns + " FROM interviews"
	var conds []string
	var args []any
	if applicationID != 0 {
		conds = append(conds, "application_id = ?")
		args = append(args, applicationID)
	}
	if cycleID != 0 {
		conds = append(conds, "application_id IN (SELECT id FROM applications WHERE cycle_id = ?)")
		args = append(args, cycleID)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY scheduled_at ASC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// Update rewrites the schedulable fields and status.
func (r *InterviewRepo) Update(ctx context.Context, iv *Interview) error {
	const q = `UPDATE interviews
	           SET scheduled_at = ?, duration_minutes = ?, meeting_link = ?, notes = ?, status = ?, updated_at = NOW()
	           WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, q, iv.ScheduledAt, iv.DurationMinutes, iv.MeetingLink, iv.Notes, iv.Status, iv.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	got, err := r.GetByID(ctx, iv.ID)
	if err != nil {
		return err
	}
	*iv = *got
	return nil
}

// Delete removes an interview row.
func (r *InterviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM interviews WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
