package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jaiparmar940/workly-sub000/internal/directory/port"
)

// PgDirectory reads user and job display data from the main application
// tables. Both lookups are read-only and best-effort for the messaging UI.
type PgDirectory struct {
	pool *pgxpool.Pool
}

func NewPgDirectory(pool *pgxpool.Pool) *PgDirectory {
	return &PgDirectory{pool: pool}
}

// Ensure interface compliance at compile time
var (
	_ port.UserDirectory = (*PgDirectory)(nil)
	_ port.JobDirectory  = (*PgDirectory)(nil)
)

func (d *PgDirectory) GetUser(ctx context.Context, id string) (*port.UserSummary, error) {
	if d == nil || d.pool == nil {
		return nil, errors.New("PgDirectory: nil pool")
	}
	var u port.UserSummary
	err := d.pool.QueryRow(ctx,
		"SELECT id, display_name, avatar_url FROM app.user WHERE id = $1",
		id,
	).Scan(&u.ID, &u.Name, &u.AvatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("directory: user %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (d *PgDirectory) GetJob(ctx context.Context, id string) (*port.JobSummary, error) {
	if d == nil || d.pool == nil {
		return nil, errors.New("PgDirectory: nil pool")
	}
	var j port.JobSummary
	err := d.pool.QueryRow(ctx,
		"SELECT id, title FROM app.job WHERE id = $1",
		id,
	).Scan(&j.ID, &j.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("directory: job %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}
