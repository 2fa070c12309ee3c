package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/packlist/internal/domain"
)

// PurposeRepo defines the persistence operations for the trip purpose catalog.
type PurposeRepo interface {
	// List returns base entries first, then proposed ones in creation order.
	List(ctx context.Context) ([]domain.TripPurpose, error)

	// Insert adds the entry unless the name is taken. It returns the stored
	// row and whether this call created it.
	Insert(ctx context.Context, p domain.TripPurpose) (domain.TripPurpose, bool, error)
}

// pgPurposeRepo is the Postgres implementation of PurposeRepo.
type pgPurposeRepo struct {
	db db
}

// NewPurposeRepo constructs a PurposeRepo backed by the provided db connection.
func NewPurposeRepo(db db) PurposeRepo {
	return &pgPurposeRepo{db: db}
}

// List returns the whole catalog.
func (r *pgPurposeRepo) List(ctx context.Context) ([]domain.TripPurpose, error) {
	const q = `
		SELECT name, description, is_base
		FROM trip_purposes
		ORDER BY is_base DESC, created_at, name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PurposeRepo.List: %w", err)
	}
	defer rows.Close()

	purposes := []domain.TripPurpose{}
	for rows.Next() {
		var p domain.TripPurpose
		if err := rows.Scan(&p.Name, &p.Description, &p.IsBase); err != nil {
			return nil, fmt.Errorf("repo.PurposeRepo.List: scan: %w", err)
		}
		purposes = append(purposes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PurposeRepo.List: rows: %w", err)
	}
	return purposes, nil
}

// Insert is race-safe: the DO UPDATE SET no-op makes RETURNING yield the
// existing row on conflict, and xmax = 0 only holds for a freshly inserted one.
func (r *pgPurposeRepo) Insert(ctx context.Context, p domain.TripPurpose) (domain.TripPurpose, bool, error) {
	const q = `
		INSERT INTO trip_purposes (name, description, is_base)
		VALUES (@name, @description, @is_base)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING name, description, is_base, (xmax = 0) AS created`

	var (
		out     domain.TripPurpose
		created bool
	)
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"name":        p.Name,
		"description": p.Description,
		"is_base":     p.IsBase,
	})
	if err := row.Scan(&out.Name, &out.Description, &out.IsBase, &created); err != nil {
		return domain.TripPurpose{}, false, fmt.Errorf("repo.PurposeRepo.Insert: %w", err)
	}
	return out, created, nil
}
