package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Review mirrors the 'reviews' table.  ReviewerID is set from the caller
// identity at creation and never changes afterwards.
type Review struct {
	ID            uint64    `json:"id"`
	ApplicationID uint64    `json:"application_id"`
	ReviewerID    uint64    `json:"reviewer_id"`
	Score         int       `json:"score"`
	Feedback      string    `json:"feedback"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

const reviewColumns = "id, application_id, reviewer_id, score, feedback, status, created_at, updated_at"

func scanReview(row interface{ Scan(...any) error }) (*Review, error) {
	var v Review
	err := row.Scan(&v.ID, &v.ApplicationID, &v.ReviewerID, &v.Score, &v.Feedback,
		&v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a completed review row.
func (r *ReviewRepo) Create(ctx context.Context, v *Review) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO reviews (application_id, reviewer_id, score, feedback, status) VALUES (?,?,?,?,'completed')`,
		v.ApplicationID, v.ReviewerID, v.Score, v.Feedback)
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
	*v = *got
	return nil
}

// GetByID fetches a review by id.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (*Review, error) {
	v, err := scanReview(r.DB.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

// List returns reviews, optionally scoped to one application, newest first.
func (r *ReviewRepo) List(ctx context.Context, applicationID uint64) ([]*Review, error) {
	q := "SELECT " + reviewColumns + " FROM reviews"
	args := []any{}
	if applicationID != 0 {
		q += " WHERE application_id = ?"
		args = append(args, applicationID)
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Review
	for rows.Next() {
		v, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Update rewrites score and feedback.  reviewer_id is deliberately not in
// the SET list; authorship is immutable.
func (r *ReviewRepo) Update(ctx context.Context, id uint64, score int, feedback string) (*Review, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE reviews SET score = ?, feedback = ?, updated_at = NOW() WHERE id = ?",
		score, feedback, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a review row.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
