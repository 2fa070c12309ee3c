// Package service contains the business logic of the packing assistant.
// Services validate inputs, enforce ownership, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/repo"
)

// PlaceholderItem is the item that makes a newly added category visible.
const PlaceholderItem = "New item"

// ChecklistService implements checklist storage rules. Methods taking a user
// ID check ownership before disclosing or changing anything; methods taking
// only a checklist ID serve the web viewer, whose links are the capability.
type ChecklistService struct {
	users      repo.UserRepo
	checklists repo.ChecklistRepo
	items      repo.ItemRepo
}

// NewChecklistService constructs a ChecklistService backed by the provided repos.
func NewChecklistService(users repo.UserRepo, checklists repo.ChecklistRepo, items repo.ItemRepo) *ChecklistService {
	return &ChecklistService{users: users, checklists: checklists, items: items}
}

// ResolveUser finds or creates the user behind a chat identity.
func (s *ChecklistService) ResolveUser(ctx context.Context, p domain.Profile) (domain.User, error) {
	u, err := s.users.FindOrCreate(ctx, p)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.ChecklistService.ResolveUser: %w: %w", domain.ErrPersistence, err)
	}
	return u, nil
}

// CreateTravel stores a generated list as a new travel checklist. Any storage
// failure is reported as domain.ErrPersistence and nothing is kept.
func (s *ChecklistService) CreateTravel(ctx context.Context, owner uuid.UUID, title string, meta domain.TripMetadata, list domain.CategorizedList) (domain.ChecklistWithItems, error) {
	if strings.TrimSpace(title) == "" {
		return domain.ChecklistWithItems{}, fmt.Errorf("service.ChecklistService.CreateTravel: %w: title is required", domain.ErrValidation)
	}
	c := domain.Checklist{
		OwnerID:      owner,
		Title:        title,
		Type:         domain.ChecklistTypeTravel,
		TripMetadata: meta,
	}
	out, err := s.checklists.CreateWithItems(ctx, c, list.NewItems())
	if err != nil {
		return domain.ChecklistWithItems{}, fmt.Errorf("service.ChecklistService.CreateTravel: %w: %w", domain.ErrPersistence, err)
	}
	return out, nil
}

// RecentPrior returns up to limit of the owner's newest travel checklists as
// personalization context, each with its items grouped by category.
func (s *ChecklistService) RecentPrior(ctx context.Context, owner uuid.UUID, limit int) ([]domain.PriorChecklist, error) {
	lists, err := s.checklists.ListRecentByOwner(ctx, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("service.ChecklistService.RecentPrior: %w", err)
	}

	prior := make([]domain.PriorChecklist, 0, len(lists))
	for _, c := range lists {
		items, err := s.items.ListByChecklist(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("service.ChecklistService.RecentPrior: items: %w", err)
		}
		p := domain.PriorChecklist{
			Destination:  c.TripMetadata.Destination,
			Purpose:      c.TripMetadata.Purpose,
			DurationDays: c.TripMetadata.DurationDays,
		}
		for _, g := range domain.GroupItems(items) {
			cat := domain.Category{Name: g.Category}
			for _, it := range g.Items {
				cat.Items = append(cat.Items, it.Title)
			}
			p.Groups = append(p.Groups, cat)
		}
		prior = append(prior, p)
	}
	return prior, nil
}

// ListForUser returns the user's checklists, newest first.
func (s *ChecklistService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Checklist, error) {
	lists, err := s.checklists.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ChecklistService.ListForUser: %w", err)
	}
	return lists, nil
}

// GetOwned returns the checklist with its items if userID owns it.
func (s *ChecklistService) GetOwned(ctx context.Context, userID, checklistID uuid.UUID) (domain.ChecklistWithItems, error) {
	c, err := s.owned(ctx, userID, checklistID)
	if err != nil {
		return domain.ChecklistWithItems{}, fmt.Errorf("service.ChecklistService.GetOwned: %w", err)
	}
	items, err := s.items.ListByChecklist(ctx, c.ID)
	if err != nil {
		return domain.ChecklistWithItems{}, fmt.Errorf("service.ChecklistService.GetOwned: items: %w", err)
	}
	return domain.ChecklistWithItems{Checklist: c, Items: items}, nil
}

// DeleteItemOwned deletes an item if userID owns its checklist, and returns
// the deleted item.
func (s *ChecklistService) DeleteItemOwned(ctx context.Context, userID, itemID uuid.UUID) (domain.ChecklistItem, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.DeleteItemOwned: %w", err)
	}
	if _, err := s.owned(ctx, userID, it.ChecklistID); err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.DeleteItemOwned: %w", err)
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.DeleteItemOwned: %w", err)
	}
	return it, nil
}

func (s *ChecklistService) owned(ctx context.Context, userID, checklistID uuid.UUID) (domain.Checklist, error) {
	c, err := s.checklists.GetByID(ctx, checklistID)
	if err != nil {
		return domain.Checklist{}, err
	}
	if c.OwnerID != userID {
		return domain.Checklist{}, domain.ErrForbidden
	}
	return c, nil
}

// Get returns a checklist with its items.
func (s *ChecklistService) Get(ctx context.Context, checklistID uuid.UUID) (domain.ChecklistWithItems, error) {
	c, err := s.checklists.GetByID(ctx, checklistID)
	if err != nil {
		return domain.ChecklistWithItems{}, fmt.Errorf("service.ChecklistService.Get: %w", err)
	}
	items, err := s.items.ListByChecklist(ctx, checklistID)
	if err != nil {
		return domain.ChecklistWithItems{}, fmt.Errorf("service.ChecklistService.Get: items: %w", err)
	}
	return domain.ChecklistWithItems{Checklist: c, Items: items}, nil
}

// AddItem appends an item to the checklist. The title is required.
func (s *ChecklistService) AddItem(ctx context.Context, checklistID uuid.UUID, item domain.NewItem) (domain.ChecklistItem, error) {
	item.Title = strings.TrimSpace(item.Title)
	item.Category = strings.TrimSpace(item.Category)
	if item.Title == "" {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.AddItem: %w: item title is required", domain.ErrValidation)
	}
	if _, err := s.checklists.GetByID(ctx, checklistID); err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.AddItem: %w", err)
	}
	it, err := s.items.Add(ctx, checklistID, item)
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.AddItem: %w", err)
	}
	return it, nil
}

// DeleteItem deletes an item of the checklist. An item of another checklist
// is reported as not found and left alone.
func (s *ChecklistService) DeleteItem(ctx context.Context, checklistID, itemID uuid.UUID) (domain.ChecklistItem, error) {
	it, err := s.itemOf(ctx, checklistID, itemID)
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.DeleteItem: %w", err)
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.DeleteItem: %w", err)
	}
	return it, nil
}

// ToggleItem flips an item's completion flag.
func (s *ChecklistService) ToggleItem(ctx context.Context, checklistID, itemID uuid.UUID) (domain.ChecklistItem, error) {
	if _, err := s.itemOf(ctx, checklistID, itemID); err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.ToggleItem: %w", err)
	}
	it, err := s.items.ToggleCompleted(ctx, itemID)
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.ToggleItem: %w", err)
	}
	return it, nil
}

func (s *ChecklistService) itemOf(ctx context.Context, checklistID, itemID uuid.UUID) (domain.ChecklistItem, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return domain.ChecklistItem{}, err
	}
	if it.ChecklistID != checklistID {
		return domain.ChecklistItem{}, domain.ErrNotFound
	}
	return it, nil
}

// AddCategory creates a category by adding PlaceholderItem to it. A category
// that already has items is rejected.
func (s *ChecklistService) AddCategory(ctx context.Context, checklistID uuid.UUID, name string) (domain.ChecklistItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.AddCategory: %w: category name is required", domain.ErrValidation)
	}
	c, err := s.Get(ctx, checklistID)
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.AddCategory: %w", err)
	}
	for _, g := range c.Groups() {
		if strings.EqualFold(g.Category, name) {
			return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.AddCategory: %w: category %q already exists", domain.ErrValidation, g.Category)
		}
	}
	it, err := s.items.Add(ctx, checklistID, domain.NewItem{Title: PlaceholderItem, Category: name})
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("service.ChecklistService.AddCategory: %w", err)
	}
	return it, nil
}

// DeleteCategory removes a category and all its items. It returns how many
// items were deleted; an unknown category is domain.ErrNotFound.
func (s *ChecklistService) DeleteCategory(ctx context.Context, checklistID uuid.UUID, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("service.ChecklistService.DeleteCategory: %w: category name is required", domain.ErrValidation)
	}
	if _, err := s.checklists.GetByID(ctx, checklistID); err != nil {
		return 0, fmt.Errorf("service.ChecklistService.DeleteCategory: %w", err)
	}
	n, err := s.items.DeleteCategory(ctx, checklistID, name)
	if err != nil {
		return 0, fmt.Errorf("service.ChecklistService.DeleteCategory: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("service.ChecklistService.DeleteCategory: %w", domain.ErrNotFound)
	}
	return n, nil
}

// IsUserError reports whether err should be shown to the user as a specific
// message rather than a generic failure.
func IsUserError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrValidation)
}
