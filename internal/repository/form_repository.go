// This file defines the Form model and repository.  A form belongs to a
// cycle and carries an ordered list of field definitions (form_schema)
// stored as JSON.  Publishing gates whether applicants can see it.
package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "time"
)

// Form represents a row of the forms table.  FormSchema is passed through
// as raw JSON; the server never interprets individual field definitions.
type Form struct {
    ID          uint64          `json:"id"`
    CycleID     uint64          `json:"cycle_id"`
    Title       string          `json:"title"`
    Description string          `json:"description"`
    FormSchema  json.RawMessage `json:"form_schema"`
    IsPublished bool            `json:"is_published"`
    CreatedBy   uint64          `json:"created_by"`
    CreatedAt   time.Time       `json:"created_at"`
    UpdatedAt   time.Time       `json:"updated_at"`
}

type FormRepo struct {
    db *sql.DB
}

func NewFormRepo(db *sql.DB) *FormRepo { return &FormRepo{db: db} }

const formColumns = "id, cycle_id, title, description, form_schema, is_published, created_by, created_at, updated_at"

func scanForm(row interface{ Scan(...any) error }) (*Form, error) {
    var f Form
    var schema []byte
    err := row.Scan(&f.ID, &f.CycleID, &f.Title, &f.Description, &schema,
        &f.IsPublished, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
    if err != nil {
        return nil, err
    }
    f.FormSchema = json.RawMessage(schema)
    return &f, nil
}

// Create inserts an unpublished form and reloads the stored row.
func (r *FormRepo) Create(ctx context.Context, f *Form) error {
    const q = `INSERT INTO forms (cycle_id, title, description, form_schema, is_published, created_by)
               VALUES (?, ?, ?, ?, FALSE, ?)`
    res, err := r.db.ExecContext(ctx, q, f.CycleID, f.Title, f.Description, []byte(f.FormSchema), f.CreatedBy)
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
    *f = *got
    return nil
}

// GetByID fetches a form regardless of publication state; the public
// handler hides unpublished rows from applicants.
func (r *FormRepo) GetByID(ctx context.Context, id uint64) (*Form, error) {
    f, err := scanForm(r.db.QueryRowContext(ctx,
        "SELECT "+formColumns+" FROM forms WHERE id = ?", id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    return f, err
}

// List returns forms, optionally filtered by cycle, newest first.
// cycleID 0 means no filter.
func (r *FormRepo) List(ctx context.Context, cycleID uint64) ([]*Form, error) {
    q := "SELECT " + formColumns + " FROM forms"
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

    var out []*Form
    for rows.Next() {
        f, err := scanForm(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, f)
    }
    return out, rows.Err()
}

// Update rewrites title, description, schema and publication flag.
func (r *FormRepo) Update(ctx context.Context, f *Form) error {
    const q = `UPDATE forms
               SET title = ?, description = ?, form_schema = ?, is_published = ?, updated_at = NOW()
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, f.Title, f.Description, []byte(f.FormSchema), f.IsPublished, f.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrNotFound
    }
    got, err := r.GetByID(ctx, f.ID)
    if err != nil {
        return err
    }
    *f = *got
    return nil
}

// Delete removes a form row.
func (r *FormRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, "DELETE FROM forms WHERE id = ?", id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrNotFound
    }
    return nil
}
