package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// AvailabilitySlot mirrors the 'availability_slots' table.  Slots are
// self-managed: each row belongs to the user who created it.
type AvailabilitySlot struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	CycleID     uint64    `json:"cycle_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AvailabilityRepo struct{ DB *sql.DB }

func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{DB: db} }

const slotColumns = "id, user_id, cycle_id, start_time, end_time, is_available, created_at, updated_at"

func scanSlot(row interface{ Scan(...any) error }) (*AvailabilitySlot, error) {
	var s AvailabilitySlot
	err := row.Scan(&s.ID, &s.UserID, &s.CycleID, &s.StartTime, &s.EndTime,
		&s.IsAvailable, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a slot marked available.
func (r *AvailabilityRepo) Create(ctx context.Context, s *AvailabilitySlot) error {
	const q = `INSERT INTO availability_slots (user_id, cycle_id, start_time, end_time, is_available)
	           VALUES (?, ?, ?, ?, TRUE)`
	res, err := r.DB.ExecContext(ctx, q, s.UserID, s.CycleID, s.StartTime, s.EndTime)
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
	*s = *got
	return nil
}

// GetByID fetches a slot by id.
func (r *AvailabilityRepo) GetByID(ctx context.Context, id uint64) (*AvailabilitySlot, error) {
	s, err := scanSlot(r.DB.QueryRowContext(ctx,
		"SELECT "+slotColumns+" FROM availability_slots WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

// GetOwned fetches a slot and enforces ownership: without the elevated
// flag the caller may only touch their own rows, and a foreign slot yields
// ErrForbidden.
func (r *AvailabilityRepo) GetOwned(ctx context.Context, id, userID uint64, elevated bool) (*AvailabilitySlot, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID && !elevated {
		return nil, ErrForbidden
	}
	return s, nil
}

// List returns slots filtered by user and/or cycle (0 disables a filter),
// ordered by start time, earliest first.
func (r *AvailabilityRepo) List(ctx context.Context, userID, cycleID uint64) ([]*AvailabilitySlot, error) {
	q := "SELECT " + slotColumns + " FROM availability_slots"
	var conds []string
	var args []any
	if userID != 0 {
		conds = append(conds, "user_id = ?")
		args = append(args, userID)
	}
	if cycleID != 0 {
		conds = append(conds, "cycle_id = ?")
		args = append(args, cycleID)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY start_time ASC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*AvailabilitySlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetAvailable flips the availability flag on a slot.
func (r *AvailabilityRepo) SetAvailable(ctx context.Context, id uint64, available bool) (*AvailabilitySlot, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE availability_slots SET is_available = ?, updated_at = NOW() WHERE id = ?", available, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a slot row.
func (r *AvailabilityRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM availability_slots WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
