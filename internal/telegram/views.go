package telegram

import (
	"fmt"
	"strings"

	"github.com/pkordes/packlist/internal/conversation"
	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/weather"
)

// Main menu callback data.
const (
	cmdNewTrip = "newtrip"
	cmdMyLists = "mylists"
	cmdNewList = "newlist"
	stubPrefix = "stub:"
)

const helpText = `I build packing lists for your trips.

/newtrip - create a packing list for a trip
/mylists - show your saved lists
/newlist - create another kind of list
/cancel - stop the current trip planning
/help - show this message`

func menuRow() [][]conversation.Button {
	return [][]conversation.Button{{{Text: "🏠 Main menu", Data: conversation.ActionMenu}}}
}

func welcomeReply(firstName string) conversation.Reply {
	greeting := "👋 Hi!"
	if firstName != "" {
		greeting = fmt.Sprintf("👋 Hi, %s!", firstName)
	}
	return conversation.Reply{
		Text: greeting + "\n\nI will help you pack for your next trip. I check the weather at your destination and put together a list of things to take.\n\nWhat would you like to do?",
		Buttons: [][]conversation.Button{
			{{Text: "🧳 New trip list", Data: cmdNewTrip}},
			{{Text: "📋 My lists", Data: cmdMyLists}},
			{{Text: "📝 Other lists", Data: cmdNewList}},
		},
	}
}

func newListReply() conversation.Reply {
	return conversation.Reply{
		Text: "Which list would you like to create?",
		Buttons: [][]conversation.Button{
			{{Text: "🧳 Trip", Data: cmdNewTrip}},
			{{Text: "🛒 Shopping", Data: stubPrefix + "shopping"}},
			{{Text: "🔧 Repair", Data: stubPrefix + "repair"}},
			{{Text: "🏠 Main menu", Data: conversation.ActionMenu}},
		},
	}
}

func listsReply(lists []domain.Checklist) conversation.Reply {
	if len(lists) == 0 {
		return conversation.Reply{Text: "You have no saved lists yet. Use /newtrip to create one.", Buttons: menuRow()}
	}
	rows := make([][]conversation.Button, 0, len(lists)+1)
	for _, c := range lists {
		rows = append(rows, []conversation.Button{{Text: "📋 " + c.Title, Data: conversation.ActionView + c.ID.String()}})
	}
	rows = append(rows, menuRow()...)
	return conversation.Reply{Text: "📚 Your lists:", Buttons: rows}
}

func (b *Bot) viewReply(c domain.ChecklistWithItems) conversation.Reply {
	meta := c.Checklist.TripMetadata
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 %s\n\n", c.Checklist.Title)
	if meta.Destination != "" {
		fmt.Fprintf(&sb, "📍 Destination: %s\n", meta.Destination)
	}
	if meta.StartDate != "" {
		fmt.Fprintf(&sb, "📅 Start date: %s\n", meta.StartDate)
	}
	if meta.DurationDays > 0 {
		fmt.Fprintf(&sb, "⏱ Duration: %d days\n", meta.DurationDays)
	}
	if meta.PurposeText != "" {
		fmt.Fprintf(&sb, "🎯 Purpose: %s\n", meta.PurposeText)
	}
	if meta.AggregatedWeather != nil {
		if w := weather.FormatSummary(*meta.AggregatedWeather); w != "" {
			fmt.Fprintf(&sb, "\n🌤 Weather forecast:\n%s\n", w)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(conversation.FormatCategories(conversation.GroupsToCategories(c.Groups())))

	access, open := b.links.Access(c.Checklist.ID)
	sb.WriteString(access)
	return conversation.Reply{Text: sb.String(), Buttons: conversation.ChecklistButtons(c.Checklist.ID, open)}
}

func (b *Bot) editReply(c domain.ChecklistWithItems) conversation.Reply {
	id := c.Checklist.ID.String()
	rows := make([][]conversation.Button, 0, len(c.Items)+2)
	for _, g := range c.Groups() {
		for _, it := range g.Items {
			rows = append(rows, []conversation.Button{{
				Text: fmt.Sprintf("❌ %s (%s)", it.Title, g.Category),
				Data: conversation.ActionDelete + it.ID.String(),
			}})
		}
	}
	rows = append(rows,
		[]conversation.Button{{Text: "🔙 Back to the list", Data: conversation.ActionView + id}},
		[]conversation.Button{{Text: "🏠 Main menu", Data: conversation.ActionMenu}},
	)

	u, _ := b.links.Checklist(c.Checklist.ID)
	text := fmt.Sprintf("✏️ Editing \"%s\"\n\nTap an item to delete it. To add items or categories, open the web editor: %s/edit", c.Checklist.Title, u)
	if len(c.Items) == 0 {
		text = fmt.Sprintf("✏️ \"%s\" has no items. Open the web editor to add some: %s/edit", c.Checklist.Title, u)
	}
	return conversation.Reply{Text: text, Buttons: rows}
}

func (b *Bot) shareReply(c domain.ChecklistWithItems) conversation.Reply {
	u, _ := b.links.Checklist(c.Checklist.ID)
	return conversation.Reply{
		Text: fmt.Sprintf("📤 Sharing with other users is coming soon.\n\nFor now you can send this link: %s", u),
		Buttons: [][]conversation.Button{
			{{Text: "🔙 Back to the list", Data: conversation.ActionView + c.Checklist.ID.String()}},
			{{Text: "🏠 Main menu", Data: conversation.ActionMenu}},
		},
	}
}
