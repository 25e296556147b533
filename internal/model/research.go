package model

import "time"

// ResearchRecord is one research artifact entry in the `research` table.
// Records are appended and read, never mutated in place. FileURL is nil for
// records created without an uploaded file and serializes as JSON null.
type ResearchRecord struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	FileURL     *string   `json:"file_url"`
	CreatedAt   time.Time `json:"created_at"` // server-assigned on insert
}
