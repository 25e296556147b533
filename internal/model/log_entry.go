package model

import "time"

// LogEntry is one row of the shared activity log in the `logs` table.
// The log is append-only; entries are never updated or deleted.
type LogEntry struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"` // server-assigned on insert
}
