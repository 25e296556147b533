package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rlportal/research-log/internal/model"
)

// ProfileRepository reads the `profiles` collection. Profiles are created by
// the identity provider at sign-up; this service only reads them.
type ProfileRepository interface {
	All(ctx context.Context) ([]model.Profile, error)
	GetByID(ctx context.Context, id string) (model.Profile, error)
	GetByEmail(ctx context.Context, email string) (model.Profile, error)
}

type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// All returns every profile ordered by id, so repeated listings with no
// intervening writes come back identical.
func (r *ProfileRepo) All(ctx context.Context) ([]model.Profile, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, email, COALESCE(password,''), created_at FROM profiles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Profile
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Password, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID fetches a single profile by its id.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (model.Profile, error) {
	var p model.Profile
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, COALESCE(password,''), created_at FROM profiles WHERE id=$1 LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.Email, &p.Password, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Profile{}, ErrNotFound
	}
	return p, err
}

// GetByEmail fetches a profile by normalized email.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (model.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var p model.Profile
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, email, COALESCE(password,''), created_at FROM profiles WHERE email=$1 LIMIT 1",
		email).Scan(&p.ID, &p.Name, &p.Email, &p.Password, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Profile{}, ErrNotFound
	}
	return p, err
}
