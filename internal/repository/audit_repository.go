package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// AuditLog mirrors the append-only 'audit_logs' table.  Rows are written
// by mutating handlers and never updated or deleted.
type AuditLog struct {
	ID         uint64          `json:"id"`
	UserID     uint64          `json:"user_id"`
	EntityType string          `json:"entity_type"`
	EntityID   uint64          `json:"entity_id"`
	Action     string          `json:"action"`
	Changes    json.RawMessage `json:"changes"`
	CreatedAt  time.Time       `json:"created_at"`
}

type AuditRepo struct{ DB *sql.DB }

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{DB: db} }

// Record appends one audit row.  Callers treat failures as non-fatal; an
// audit miss must not fail the mutation it describes.
func (r *AuditRepo) Record(ctx context.Context, userID uint64, entityType string, entityID uint64, action string, changes json.RawMessage) error {
	if changes == nil {
		changes = json.RawMessage("{}")
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO audit_logs (user_id, entity_type, entity_id, action, changes) VALUES (?,?,?,?,?)",
		userID, entityType, entityID, action, []byte(changes))
	return err
}

// List returns audit rows newest first with limit/offset paging.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]*AuditLog, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, entity_type, entity_id, action, changes, created_at FROM audit_logs ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*AuditLog
	for rows.Next() {
		var l AuditLog
		var changes []byte
		if err := rows.Scan(&l.ID, &l.UserID, &l.EntityType, &l.EntityID, &l.Action, &changes, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Changes = json.RawMessage(changes)
		out = append(out, &l)
	}
	return out, rows.Err()
}
