package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/repo"
)

// ExportService builds the shareable copies of a checklist: a JSON document
// and an iCalendar event spanning the trip.
type ExportService struct {
	checklists repo.ChecklistRepo
	items      repo.ItemRepo
	now        func() time.Time
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(checklists repo.ChecklistRepo, items repo.ItemRepo) *ExportService {
	return &ExportService{checklists: checklists, items: items, now: time.Now}
}

// Share returns the checklist's shareable copy. Items keep their display
// order; uncategorized items are exported under domain.CategoryOther.
func (s *ExportService) Share(ctx context.Context, checklistID uuid.UUID) (domain.ChecklistExport, error) {
	c, items, err := s.load(ctx, checklistID)
	if err != nil {
		return domain.ChecklistExport{}, fmt.Errorf("service.ExportService.Share: %w", err)
	}

	out := domain.ChecklistExport{
		Title:    c.Title,
		Type:     c.Type,
		Metadata: c.TripMetadata,
		Items:    make([]domain.ExportItem, 0, len(items)),
	}
	for _, g := range domain.GroupItems(items) {
		for _, it := range g.Items {
			out.Items = append(out.Items, domain.ExportItem{
				Title:       it.Title,
				Category:    g.Category,
				Description: it.Description,
				IsCompleted: it.IsCompleted,
			})
		}
	}
	return out, nil
}

// Calendar renders the trip as a single all-day iCalendar event lasting the
// trip's duration. The description lists what is still left to pack.
// A checklist without a parseable start date is a validation error.
func (s *ExportService) Calendar(ctx context.Context, checklistID uuid.UUID, link string) (string, error) {
	c, items, err := s.load(ctx, checklistID)
	if err != nil {
		return "", fmt.Errorf("service.ExportService.Calendar: %w", err)
	}

	meta := c.TripMetadata
	start, err := time.Parse(domain.DateLayout, meta.StartDate)
	if err != nil {
		return "", fmt.Errorf("service.ExportService.Calendar: %w: checklist has no trip start date", domain.ErrValidation)
	}
	days := max(meta.DurationDays, 1)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//packlist//trip checklist//EN")

	ev := cal.AddEvent(c.ID.String() + "@packlist")
	ev.SetDtStampTime(s.now().UTC())
	ev.SetCreatedTime(c.CreatedAt.UTC())
	ev.SetSummary(c.Title)
	if meta.Destination != "" {
		ev.SetLocation(meta.Destination)
	}
	ev.SetAllDayStartAt(start)
	ev.SetAllDayEndAt(start.AddDate(0, 0, days))
	ev.SetDescription(packingNotes(items))
	if link != "" {
		ev.SetURL(link)
	}
	return cal.Serialize(), nil
}

func (s *ExportService) load(ctx context.Context, checklistID uuid.UUID) (domain.Checklist, []domain.ChecklistItem, error) {
	c, err := s.checklists.GetByID(ctx, checklistID)
	if err != nil {
		return domain.Checklist{}, nil, err
	}
	items, err := s.items.ListByChecklist(ctx, checklistID)
	if err != nil {
		return domain.Checklist{}, nil, fmt.Errorf("items: %w", err)
	}
	return c, items, nil
}

// packingNotes lists unchecked items, one "Category: a, b" line per category.
func packingNotes(items []domain.ChecklistItem) string {
	var lines []string
	for _, g := range domain.GroupItems(items) {
		var left []string
		for _, it := range g.Items {
			if !it.IsCompleted {
				left = append(left, it.Title)
			}
		}
		if len(left) > 0 {
			lines = append(lines, g.Category+": "+strings.Join(left, ", "))
		}
	}
	if len(lines) == 0 {
		return "Everything is packed."
	}
	return strings.Join(lines, "\n")
}
