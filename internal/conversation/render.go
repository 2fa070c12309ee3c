package conversation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/packlist/internal/domain"
)

// Button is an inline button: either callback Data or a URL.
type Button struct {
	Text string
	Data string
	URL  string
}

// Reply is one outgoing chat message with optional button rows.
type Reply struct {
	Text    string
	Buttons [][]Button
}

// Callback data prefixes shared with the chat transport.
const (
	ActionView    = "view:"
	ActionEdit    = "edit:"
	ActionDelete  = "del:"
	ActionShare   = "share:"
	ActionPurpose = "purpose:"
	ActionMenu    = "menu"
)

// Suggestion is a one-tap purpose answer offered with the purpose question.
type Suggestion struct {
	Name  string
	Label string
	Text  string
}

// Suggestions are the purpose buttons. Tapping one answers with its Text.
var Suggestions = []Suggestion{
	{Name: "beach", Label: "🏖 Beach holiday", Text: "beach holiday"},
	{Name: "active", Label: "🏃 Active holiday", Text: "active holiday"},
	{Name: "business", Label: "💼 Business", Text: "business trip"},
	{Name: "other", Label: "🎯 Other", Text: "other"},
}

// SuggestionText returns the answer text of the named suggestion.
func SuggestionText(name string) (string, bool) {
	for _, s := range Suggestions {
		if s.Name == name {
			return s.Text, true
		}
	}
	return "", false
}

// Links builds web viewer URLs. Public is the externally reachable base URL
// and may be empty; Local is shown as a fallback instruction.
type Links struct {
	Public string
	Local  string
}

// Checklist returns the read-view URL of a checklist and whether it is
// publicly reachable.
func (l Links) Checklist(id uuid.UUID) (string, bool) {
	if l.Public != "" {
		return strings.TrimSuffix(l.Public, "/") + "/checklist/" + id.String(), true
	}
	return strings.TrimSuffix(l.Local, "/") + "/checklist/" + id.String(), false
}

// Access returns the web access text and, for a public URL, an
// "open in browser" button.
func (l Links) Access(id uuid.UUID) (string, *Button) {
	u, public := l.Checklist(id)
	if public {
		return "🌐 Web version: " + u, &Button{Text: "🌐 Open in browser", URL: u}
	}
	return fmt.Sprintf("To open the web version: %s\nIf the web viewer is not running, start it with: packlist web", u), nil
}

// Title is the stored title of a travel checklist.
func Title(destination, startDate, purposeText string, days int) string {
	return fmt.Sprintf("%s from %s (%s, %d days)", destination, startDate, purposeText, days)
}

// FormatCategories lists categories under a header each, items as bullets.
func FormatCategories(cats []domain.Category) string {
	var b strings.Builder
	for _, c := range cats {
		fmt.Fprintf(&b, "🔹 %s:\n", c.Name)
		for _, it := range c.Items {
			fmt.Fprintf(&b, "  • %s\n", it)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// GroupsToCategories converts stored item groups to named title lists.
func GroupsToCategories(groups []domain.ItemGroup) []domain.Category {
	cats := make([]domain.Category, 0, len(groups))
	for _, g := range groups {
		c := domain.Category{Name: g.Category}
		for _, it := range g.Items {
			c.Items = append(c.Items, it.Title)
		}
		cats = append(cats, c)
	}
	return cats
}

// ChecklistButtons are the actions offered under a rendered checklist.
func ChecklistButtons(id uuid.UUID, open *Button) [][]Button {
	rows := [][]Button{
		{{Text: "📝 Edit", Data: ActionEdit + id.String()}},
		{{Text: "📤 Share", Data: ActionShare + id.String()}},
	}
	if open != nil {
		rows = append(rows, []Button{*open})
	}
	return append(rows, []Button{{Text: "🏠 Main menu", Data: ActionMenu}})
}

func purposeButtons() [][]Button {
	rows := make([][]Button, 0, len(Suggestions))
	for _, s := range Suggestions {
		rows = append(rows, []Button{{Text: s.Label, Data: ActionPurpose + s.Name}})
	}
	return rows
}

func completionReply(c domain.ChecklistWithItems, list domain.CategorizedList, links Links) Reply {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Your packing list for %s is ready!\n\n", c.Checklist.TripMetadata.Destination)
	b.WriteString("📋 Here is what to pack:\n\n")
	b.WriteString(FormatCategories(list.Categories))

	access, open := links.Access(c.Checklist.ID)
	b.WriteString(access)
	return Reply{Text: b.String(), Buttons: ChecklistButtons(c.Checklist.ID, open)}
}
