// Package repo contains all database access logic for the packing assistant.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/packlist/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test. Begin on a
// pgx.Tx opens a savepoint, so CreateWithItems works the same inside a test tx.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// ChecklistRepo defines the persistence operations for Checklists.
type ChecklistRepo interface {
	// CreateWithItems inserts the checklist and all its items in one
	// transaction: either everything is stored or nothing is.
	CreateWithItems(ctx context.Context, c domain.Checklist, items []domain.NewItem) (domain.ChecklistWithItems, error)

	// GetByID returns domain.ErrNotFound if no checklist with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Checklist, error)

	// ListByOwner returns the owner's checklists, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Checklist, error)

	// ListRecentByOwner returns at most limit of the owner's newest travel
	// checklists.
	ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Checklist, error)
}

// pgChecklistRepo is the Postgres implementation of ChecklistRepo.
type pgChecklistRepo struct {
	db db
}

// NewChecklistRepo constructs a ChecklistRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewChecklistRepo(db db) ChecklistRepo {
	return &pgChecklistRepo{db: db}
}

const checklistColumns = `id, owner_id, title, type, description, is_template, is_public, trip_metadata, created_at, updated_at`

// CreateWithItems writes the header row and then each item with increasing
// positions. The deferred rollback is a no-op once the commit succeeded.
func (r *pgChecklistRepo) CreateWithItems(ctx context.Context, c domain.Checklist, items []domain.NewItem) (domain.ChecklistWithItems, error) {
	meta, err := json.Marshal(c.TripMetadata)
	if err != nil {
		return domain.ChecklistWithItems{}, fmt.Errorf("repo.ChecklistRepo.CreateWithItems: metadata: %w", err)
	}
	if c.Type == "" {
		c.Type = domain.ChecklistTypeTravel
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.ChecklistWithItems{}, fmt.Errorf("repo.ChecklistRepo.CreateWithItems: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `
		INSERT INTO checklists (owner_id, title, type, description, is_template, is_public, trip_metadata)
		VALUES (@owner_id, @title, @type, @description, @is_template, @is_public, @trip_metadata::jsonb)
		RETURNING ` + checklistColumns

	row := tx.QueryRow(ctx, q, pgx.NamedArgs{
		"owner_id":      c.OwnerID,
		"title":         c.Title,
		"type":          c.Type,
		"description":   c.Description,
		"is_template":   c.IsTemplate,
		"is_public":     c.IsPublic,
		"trip_metadata": string(meta),
	})
	created, err := scanChecklist(row)
	if err != nil {
		return domain.ChecklistWithItems{}, fmt.Errorf("repo.ChecklistRepo.CreateWithItems: checklist: %w", err)
	}

	out := domain.ChecklistWithItems{Checklist: created, Items: make([]domain.ChecklistItem, 0, len(items))}
	for i, it := range items {
		item, err := insertItem(ctx, tx, created.ID, it, i)
		if err != nil {
			return domain.ChecklistWithItems{}, fmt.Errorf("repo.ChecklistRepo.CreateWithItems: item %d: %w", i, err)
		}
		out.Items = append(out.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ChecklistWithItems{}, fmt.Errorf("repo.ChecklistRepo.CreateWithItems: commit: %w", err)
	}
	return out, nil
}

// GetByID retrieves a checklist by primary key.
func (r *pgChecklistRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Checklist, error) {
	q := `SELECT ` + checklistColumns + ` FROM checklists WHERE id = @id`

	result, err := scanChecklist(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Checklist{}, fmt.Errorf("repo.ChecklistRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByOwner returns every checklist of the owner, newest first.
func (r *pgChecklistRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Checklist, error) {
	q := `
		SELECT ` + checklistColumns + `
		FROM checklists
		WHERE owner_id = @owner_id
		ORDER BY created_at DESC, id`

	lists, err := r.list(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.ChecklistRepo.ListByOwner: %w", err)
	}
	return lists, nil
}

// ListRecentByOwner returns up to limit travel checklists, newest first.
func (r *pgChecklistRepo) ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Checklist, error) {
	q := `
		SELECT ` + checklistColumns + `
		FROM checklists
		WHERE owner_id = @owner_id AND type = @type
		ORDER BY created_at DESC, id
		LIMIT @limit`

	lists, err := r.list(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "type": domain.ChecklistTypeTravel, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.ChecklistRepo.ListRecentByOwner: %w", err)
	}
	return lists, nil
}

func (r *pgChecklistRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Checklist, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []domain.Checklist{}
	for rows.Next() {
		c, err := scanChecklist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		lists = append(lists, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return lists, nil
}

// scanChecklist maps a single database row into a domain.Checklist.
// trip_metadata is decoded through TripMetadata.UnmarshalJSON so unknown
// keys survive in Extra.
func scanChecklist(s scanner) (domain.Checklist, error) {
	var (
		c       domain.Checklist
		id      pgtype.UUID
		ownerID pgtype.UUID
		meta    []byte
	)

	err := s.Scan(&id, &ownerID, &c.Title, &c.Type, &c.Description, &c.IsTemplate, &c.IsPublic, &meta, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Checklist{}, domain.ErrNotFound
		}
		return domain.Checklist{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	c.OwnerID = uuid.UUID(ownerID.Bytes)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &c.TripMetadata); err != nil {
			return domain.Checklist{}, fmt.Errorf("decode trip_metadata: %w", err)
		}
	}
	return c, nil
}
