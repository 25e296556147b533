package repository

import (
	"context"
	"database/sql"

	"github.com/rlportal/research-log/internal/model"
)

// LogRepository appends and reads the append-only `logs` collection. Entries
// are never updated or deleted.
type LogRepository interface {
	Create(ctx context.Context, userID, description string) (model.LogEntry, error)
	Recent(ctx context.Context, limit int) ([]model.LogEntry, error)
}

type LogRepo struct{ DB *sql.DB }

func NewLogRepo(db *sql.DB) *LogRepo { return &LogRepo{DB: db} }

// Create appends an entry and returns it with the server-assigned id and
// created_at.
func (r *LogRepo) Create(ctx context.Context, userID, description string) (model.LogEntry, error) {
	var e model.LogEntry
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO logs (user_id, description)
		 VALUES ($1, $2)
		 RETURNING id, user_id, description, created_at`,
		userID, description).
		Scan(&e.ID, &e.UserID, &e.Description, &e.CreatedAt)
	return e, err
}

// Recent returns the latest entries across all users, newest first.
func (r *LogRepo) Recent(ctx context.Context, limit int) ([]model.LogEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, description, created_at
		 FROM logs ORDER BY created_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
