// This file defines the RecruitmentCycle model and repository.  A cycle is
// a time-boxed recruitment round that forms, applications, availability
// slots and campaigns all hang off.
package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"
)

// RecruitmentCycle represents a row of recruitment_cycles.  Status moves
// through planning -> active -> closed -> completed; new cycles start in
// planning.
type RecruitmentCycle struct {
    ID          uint64    `json:"id"`
    Name        string    `json:"name"`
    Description string    `json:"description"`
    StartDate   string    `json:"start_date"`
    EndDate     string    `json:"end_date"`
    Status      string    `json:"status"`
    CreatedBy   uint64    `json:"created_by"`
    CreatedAt   time.Time `json:"created_at"`
    UpdatedAt   time.Time `json:"updated_at"`
}

// CycleStatuses enumerates the accepted cycle status values.
var CycleStatuses = map[string]bool{
    "planning":  true,
    "active":    true,
    "closed":    true,
    "completed": true,
}

type CycleRepo struct {
    db *sql.DB
}

func NewCycleRepo(db *sql.DB) *CycleRepo { return &CycleRepo{db: db} }

const cycleColumns = "id, name, description, start_date, end_date, status, created_by, created_at, updated_at"

func scanCycle(row interface{ Scan(...any) error }) (*RecruitmentCycle, error) {
    var c RecruitmentCycle
    err := row.Scan(&c.ID, &c.Name, &c.Description, &c.StartDate, &c.EndDate,
        &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &c, nil
}

// Create inserts a cycle with status "planning" and reloads the row so the
// caller receives generated timestamps.
func (r *CycleRepo) Create(ctx context.Context, c *RecruitmentCycle) error {
    const q = `INSERT INTO recruitment_cycles (name, description, start_date, end_date, status, created_by)
               VALUES (?, ?, ?, ?, 'planning', ?)`
    res, err := r.db.ExecContext(ctx, q, c.Name, c.Description, c.StartDate, c.EndDate, c.CreatedBy)
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

// GetByID fetches a cycle, returning ErrNotFound when absent.
func (r *CycleRepo) GetByID(ctx context.Context, id uint64) (*RecruitmentCycle, error) {
    c, err := scanCycle(r.db.QueryRowContext(ctx,
        "SELECT "+cycleColumns+" FROM recruitment_cycles WHERE id = ?", id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return c, err
}

// List returns all cycles, most recently created first.
func (r *CycleRepo) List(ctx context.Context) ([]*RecruitmentCycle, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+cycleColumns+" FROM recruitment_cycles ORDER BY created_at DESC")
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*RecruitmentCycle
    for rows.Next() {
        c, err := scanCycle(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// Update rewrites the editable fields and bumps updated_at.  Returns
// ErrNotFound when no row was touched.
func (r *CycleRepo) Update(ctx context.Context, c *RecruitmentCycle) error {
    const q = `UPDATE recruitment_cycles
               SET name = ?, description = ?, start_date = ?, end_date = ?, status = ?, updated_at = NOW()
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, c.Name, c.Description, c.StartDate, c.EndDate, c.Status, c.ID)
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

// Delete removes a cycle row.  Dependent rows are expected to be removed
// by the database's foreign key actions.
func (r *CycleRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM recruitment_cycles WHERE id = ?", id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrNotFound
    }
    return nil
}
