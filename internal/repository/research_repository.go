package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rlportal/research-log/internal/model"
)

// ResearchRepository appends and reads the `research` collection.
type ResearchRepository interface {
	Create(ctx context.Context, userID, description string, fileURL *string) (model.ResearchRecord, error)
	ListByUser(ctx context.Context, userID string) ([]model.ResearchRecord, error)
	ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]model.ResearchRecord, error)
}

type ResearchRepo struct{ DB *sql.DB }

func NewResearchRepo(db *sql.DB) *ResearchRepo { return &ResearchRepo{DB: db} }

// Create inserts a record and returns it with the server-assigned id and
// created_at.
func (r *ResearchRepo) Create(ctx context.Context, userID, description string, fileURL *string) (model.ResearchRecord, error) {
	var rec model.ResearchRecord
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO research (user_id, description, file_url)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, description, file_url, created_at`,
		userID, description, fileURL).
		Scan(&rec.ID, &rec.UserID, &rec.Description, &rec.FileURL, &rec.CreatedAt)
	return rec, err
}

// ListByUser returns all of a user's records, newest first, without a limit.
func (r *ResearchRepo) ListByUser(ctx context.Context, userID string) ([]model.ResearchRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, description, file_url, created_at
		 FROM research WHERE user_id=$1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	return scanResearchRows(rows)
}

// ListByUserBetween returns the user's records whose created_at falls in the
// half-open interval [from, to), newest first.
func (r *ResearchRepo) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]model.ResearchRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, description, file_url, created_at
		 FROM research WHERE user_id=$1 AND created_at >= $2 AND created_at < $3
		 ORDER BY created_at DESC`,
		userID, from, to)
	if err != nil {
		return nil, err
	}
	return scanResearchRows(rows)
}

func scanResearchRows(rows *sql.Rows) ([]model.ResearchRecord, error) {
	defer rows.Close()
	var out []model.ResearchRecord
	for rows.Next() {
		var rec model.ResearchRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Description, &rec.FileURL, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
