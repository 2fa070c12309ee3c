package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/repo"
)

// ---- mock UserRepo ----------------------------------------------------------

type mockUserRepo struct {
	findOrCreate func(ctx context.Context, p domain.Profile) (domain.User, error)
}

func (m *mockUserRepo) FindOrCreate(ctx context.Context, p domain.Profile) (domain.User, error) {
	return m.findOrCreate(ctx, p)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// ---- mock ChecklistRepo -----------------------------------------------------

type mockChecklistRepo struct {
	createWithItems   func(ctx context.Context, c domain.Checklist, items []domain.NewItem) (domain.ChecklistWithItems, error)
	getByID           func(ctx context.Context, id uuid.UUID) (domain.Checklist, error)
	listByOwner       func(ctx context.Context, ownerID uuid.UUID) ([]domain.Checklist, error)
	listRecentByOwner func(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Checklist, error)
}

func (m *mockChecklistRepo) CreateWithItems(ctx context.Context, c domain.Checklist, items []domain.NewItem) (domain.ChecklistWithItems, error) {
	return m.createWithItems(ctx, c, items)
}
func (m *mockChecklistRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Checklist, error) {
	return m.getByID(ctx, id)
}
func (m *mockChecklistRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Checklist, error) {
	return m.listByOwner(ctx, ownerID)
}
func (m *mockChecklistRepo) ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Checklist, error) {
	return m.listRecentByOwner(ctx, ownerID, limit)
}

var _ repo.ChecklistRepo = (*mockChecklistRepo)(nil)

// ---- mock ItemRepo ----------------------------------------------------------

type mockItemRepo struct {
	listByChecklist func(ctx context.Context, checklistID uuid.UUID) ([]domain.ChecklistItem, error)
	add             func(ctx context.Context, checklistID uuid.UUID, item domain.NewItem) (domain.ChecklistItem, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.ChecklistItem, error)
	delete          func(ctx context.Context, id uuid.UUID) error
	toggleCompleted func(ctx context.Context, id uuid.UUID) (domain.ChecklistItem, error)
	deleteCategory  func(ctx context.Context, checklistID uuid.UUID, category string) (int64, error)
}

func (m *mockItemRepo) ListByChecklist(ctx context.Context, checklistID uuid.UUID) ([]domain.ChecklistItem, error) {
	return m.listByChecklist(ctx, checklistID)
}
func (m *mockItemRepo) Add(ctx context.Context, checklistID uuid.UUID, item domain.NewItem) (domain.ChecklistItem, error) {
	return m.add(ctx, checklistID, item)
}
func (m *mockItemRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ChecklistItem, error) {
	return m.getByID(ctx, id)
}
func (m *mockItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockItemRepo) ToggleCompleted(ctx context.Context, id uuid.UUID) (domain.ChecklistItem, error) {
	return m.toggleCompleted(ctx, id)
}
func (m *mockItemRepo) DeleteCategory(ctx context.Context, checklistID uuid.UUID, category string) (int64, error) {
	return m.deleteCategory(ctx, checklistID, category)
}

var _ repo.ItemRepo = (*mockItemRepo)(nil)

// ---- mock PurposeRepo -------------------------------------------------------

type mockPurposeRepo struct {
	list   func(ctx context.Context) ([]domain.TripPurpose, error)
	insert func(ctx context.Context, p domain.TripPurpose) (domain.TripPurpose, bool, error)
}

func (m *mockPurposeRepo) List(ctx context.Context) ([]domain.TripPurpose, error) {
	return m.list(ctx)
}
func (m *mockPurposeRepo) Insert(ctx context.Context, p domain.TripPurpose) (domain.TripPurpose, bool, error) {
	return m.insert(ctx, p)
}

var _ repo.PurposeRepo = (*mockPurposeRepo)(nil)

// ---- fixtures ---------------------------------------------------------------

// store is an in-memory checklist with its items, served through the mocks.
type store struct {
	checklist domain.Checklist
	items     []domain.ChecklistItem
}

func newStore(owner uuid.UUID) *store {
	id := uuid.New()
	return &store{
		checklist: domain.Checklist{
			ID:      id,
			OwnerID: owner,
			Title:   "Lisbon from 25.06.2030 (beach vacation, 5 days)",
			Type:    domain.ChecklistTypeTravel,
			TripMetadata: domain.TripMetadata{
				Destination:  "Lisbon",
				DurationDays: 5,
				StartDate:    "25.06.2030",
				Purpose:      "beach",
			},
		},
		items: []domain.ChecklistItem{
			{ID: uuid.New(), ChecklistID: id, Title: "Passport", Category: "Documents & money", Position: 0},
			{ID: uuid.New(), ChecklistID: id, Title: "Swimsuit", Category: "Clothing", Position: 1},
			{ID: uuid.New(), ChecklistID: id, Title: "Bank cards", Category: "Documents & money", Position: 2, IsCompleted: true},
			{ID: uuid.New(), ChecklistID: id, Title: "Sewing kit", Position: 3},
		},
	}
}

func (s *store) checklistRepo() *mockChecklistRepo {
	return &mockChecklistRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Checklist, error) {
			if id != s.checklist.ID {
				return domain.Checklist{}, domain.ErrNotFound
			}
			return s.checklist, nil
		},
	}
}

func (s *store) itemRepo() *mockItemRepo {
	return &mockItemRepo{
		listByChecklist: func(_ context.Context, _ uuid.UUID) ([]domain.ChecklistItem, error) {
			return s.items, nil
		},
		getByID: func(_ context.Context, id uuid.UUID) (domain.ChecklistItem, error) {
			for _, it := range s.items {
				if it.ID == id {
					return it, nil
				}
			}
			return domain.ChecklistItem{}, domain.ErrNotFound
		},
		add: func(_ context.Context, checklistID uuid.UUID, item domain.NewItem) (domain.ChecklistItem, error) {
			it := domain.ChecklistItem{
				ID:          uuid.New(),
				ChecklistID: checklistID,
				Title:       item.Title,
				Category:    item.Category,
				Position:    len(s.items),
			}
			s.items = append(s.items, it)
			return it, nil
		},
		delete: func(_ context.Context, id uuid.UUID) error {
			for i, it := range s.items {
				if it.ID == id {
					s.items = append(s.items[:i], s.items[i+1:]...)
					return nil
				}
			}
			return domain.ErrNotFound
		},
		toggleCompleted: func(_ context.Context, id uuid.UUID) (domain.ChecklistItem, error) {
			for i := range s.items {
				if s.items[i].ID == id {
					s.items[i].IsCompleted = !s.items[i].IsCompleted
					return s.items[i], nil
				}
			}
			return domain.ChecklistItem{}, domain.ErrNotFound
		},
		deleteCategory: func(_ context.Context, _ uuid.UUID, category string) (int64, error) {
			var kept []domain.ChecklistItem
			var n int64
			for _, it := range s.items {
				if it.CategoryOrOther() == category {
					n++
					continue
				}
				kept = append(kept, it)
			}
			s.items = kept
			return n, nil
		},
	}
}
