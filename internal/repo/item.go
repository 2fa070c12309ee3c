package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/packlist/internal/domain"
)

// ItemRepo defines the persistence operations for checklist items.
type ItemRepo interface {
	// ListByChecklist returns the checklist's items in insertion order.
	ListByChecklist(ctx context.Context, checklistID uuid.UUID) ([]domain.ChecklistItem, error)

	// Add appends an item after the checklist's current last position.
	Add(ctx context.Context, checklistID uuid.UUID, item domain.NewItem) (domain.ChecklistItem, error)

	// GetByID returns domain.ErrNotFound if no item with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.ChecklistItem, error)

	// Delete removes an item. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ToggleCompleted flips is_completed and returns the updated item.
	ToggleCompleted(ctx context.Context, id uuid.UUID) (domain.ChecklistItem, error)

	// DeleteCategory removes every item of the category from the checklist and
	// returns how many were removed. Deleting domain.CategoryOther also removes
	// items stored without a category.
	DeleteCategory(ctx context.Context, checklistID uuid.UUID, category string) (int64, error)
}

// pgItemRepo is the Postgres implementation of ItemRepo.
type pgItemRepo struct {
	db db
}

// NewItemRepo constructs an ItemRepo backed by the provided db connection.
func NewItemRepo(db db) ItemRepo {
	return &pgItemRepo{db: db}
}

const itemColumns = `id, checklist_id, title, description, category, position, is_completed, created_at`

// ListByChecklist returns the items of one checklist ordered by position.
func (r *pgItemRepo) ListByChecklist(ctx context.Context, checklistID uuid.UUID) ([]domain.ChecklistItem, error) {
	q := `
		SELECT ` + itemColumns + `
		FROM checklist_items
		WHERE checklist_id = @checklist_id
		ORDER BY position, created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"checklist_id": checklistID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByChecklist: %w", err)
	}
	defer rows.Close()

	items := []domain.ChecklistItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItemRepo.ListByChecklist: scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByChecklist: rows: %w", err)
	}
	return items, nil
}

// Add inserts one item at the end of the checklist.
func (r *pgItemRepo) Add(ctx context.Context, checklistID uuid.UUID, item domain.NewItem) (domain.ChecklistItem, error) {
	q := `
		INSERT INTO checklist_items (checklist_id, title, description, category, position)
		SELECT @checklist_id::uuid, @title::text, @description::text, @category::text,
		       COALESCE(MAX(position) + 1, 0)
		FROM checklist_items
		WHERE checklist_id = @checklist_id::uuid
		RETURNING ` + itemColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"checklist_id": checklistID,
		"title":        item.Title,
		"description":  item.Description,
		"category":     item.Category,
	})
	result, err := scanItem(row)
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("repo.ItemRepo.Add: %w", err)
	}
	return result, nil
}

// GetByID retrieves an item by primary key.
func (r *pgItemRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ChecklistItem, error) {
	q := `SELECT ` + itemColumns + ` FROM checklist_items WHERE id = @id`

	result, err := scanItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", err)
	}
	return result, nil
}

// Delete removes an item by primary key.
func (r *pgItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM checklist_items WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItemRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ToggleCompleted flips the completion flag in place.
func (r *pgItemRepo) ToggleCompleted(ctx context.Context, id uuid.UUID) (domain.ChecklistItem, error) {
	q := `
		UPDATE checklist_items
		SET is_completed = NOT is_completed
		WHERE id = @id
		RETURNING ` + itemColumns

	result, err := scanItem(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("repo.ItemRepo.ToggleCompleted: %w", err)
	}
	return result, nil
}

// DeleteCategory removes all items of a category in one statement.
func (r *pgItemRepo) DeleteCategory(ctx context.Context, checklistID uuid.UUID, category string) (int64, error) {
	const q = `
		DELETE FROM checklist_items
		WHERE checklist_id = @checklist_id
		  AND (category = @category OR (@is_other::boolean AND category = ''))`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"checklist_id": checklistID,
		"category":     category,
		"is_other":     category == domain.CategoryOther,
	})
	if err != nil {
		return 0, fmt.Errorf("repo.ItemRepo.DeleteCategory: %w", err)
	}
	return tag.RowsAffected(), nil
}

// insertItem writes one item at an explicit position. It is shared by
// ChecklistRepo.CreateWithItems, which runs it inside its transaction.
func insertItem(ctx context.Context, q db, checklistID uuid.UUID, item domain.NewItem, position int) (domain.ChecklistItem, error) {
	sql := `
		INSERT INTO checklist_items (checklist_id, title, description, category, position)
		VALUES (@checklist_id, @title, @description, @category, @position)
		RETURNING ` + itemColumns

	return scanItem(q.QueryRow(ctx, sql, pgx.NamedArgs{
		"checklist_id": checklistID,
		"title":        item.Title,
		"description":  item.Description,
		"category":     item.Category,
		"position":     position,
	}))
}

// scanItem maps a single database row into a domain.ChecklistItem.
func scanItem(s scanner) (domain.ChecklistItem, error) {
	var (
		it          domain.ChecklistItem
		id          pgtype.UUID
		checklistID pgtype.UUID
	)

	err := s.Scan(&id, &checklistID, &it.Title, &it.Description, &it.Category, &it.Position, &it.IsCompleted, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChecklistItem{}, domain.ErrNotFound
		}
		return domain.ChecklistItem{}, err
	}

	it.ID = uuid.UUID(id.Bytes)
	it.ChecklistID = uuid.UUID(checklistID.Bytes)
	return it, nil
}
