// Package domain contains the core data types for the packing assistant.
// It is imported by every other internal package (repo, service, handler,
// conversation) and depends only on small value libraries.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistTypeTravel is the discriminator of checklists built by the trip
// conversation. Shopping and repair lists exist only as menu stubs.
const ChecklistTypeTravel = "travel"

// CategoryOther is the bucket used for items without a category.
const CategoryOther = "Other"

// DateLayout is the trip start date format users type and titles show.
const DateLayout = "02.01.2006"

// Checklist is a titled collection of categorized items owned by one user.
// Items are not embedded; category is a plain field on each item and the
// grouped view is derived when reading.
type Checklist struct {
	ID           uuid.UUID    `json:"id"`
	OwnerID      uuid.UUID    `json:"owner_id"`
	Title        string       `json:"title"`
	Type         string       `json:"type"`
	Description  string       `json:"description,omitempty"`
	IsTemplate   bool         `json:"is_template"`
	IsPublic     bool         `json:"is_public"`
	TripMetadata TripMetadata `json:"trip_metadata"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ChecklistItem is one thing to pack. Position is the insertion sequence
// within the checklist; grouping by category keeps that order.
type ChecklistItem struct {
	ID          uuid.UUID `json:"id"`
	ChecklistID uuid.UUID `json:"checklist_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Position    int       `json:"position"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryOrOther returns the item's category, or CategoryOther when unset.
func (i ChecklistItem) CategoryOrOther() string {
	if i.Category == "" {
		return CategoryOther
	}
	return i.Category
}

// NewItem is the input for inserting an item; the repo assigns ID and Position.
type NewItem struct {
	Title       string
	Category    string
	Description string
}

// ItemGroup is one category header with its items, in display order.
type ItemGroup struct {
	Category string
	Items    []ChecklistItem
}

// GroupItems groups items by category, keeping the first-seen order of
// categories and the given order of items within each category.
func GroupItems(items []ChecklistItem) []ItemGroup {
	var groups []ItemGroup
	index := map[string]int{}
	for _, it := range items {
		cat := it.CategoryOrOther()
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, ItemGroup{Category: cat})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// ChecklistWithItems is a checklist loaded together with its items.
type ChecklistWithItems struct {
	Checklist Checklist
	Items     []ChecklistItem
}

// Groups returns the checklist's items grouped by category.
func (c ChecklistWithItems) Groups() []ItemGroup {
	return GroupItems(c.Items)
}
