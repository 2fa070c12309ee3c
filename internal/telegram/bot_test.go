package telegram

import (
	"context"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/packlist/internal/conversation"
	"github.com/pkordes/packlist/internal/domain"
)

// ---- fakes ------------------------------------------------------------------

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

var _ Sender = (*fakeSender)(nil)

type mockDialogue struct {
	started  int
	canceled int
	texts    []string
	active   bool
}

func (d *mockDialogue) Start(context.Context, domain.Profile, conversation.Outbox) { d.started++ }
func (d *mockDialogue) Cancel(context.Context, domain.Profile, conversation.Outbox) {
	d.canceled++
}
func (d *mockDialogue) Handle(_ context.Context, _ domain.Profile, text string, _ conversation.Outbox) bool {
	d.texts = append(d.texts, text)
	return d.active
}

var _ Dialogue = (*mockDialogue)(nil)

type mockChecklists struct {
	user       domain.User
	lists      []domain.Checklist
	getOwned   func(userID, checklistID uuid.UUID) (domain.ChecklistWithItems, error)
	deleteItem func(userID, itemID uuid.UUID) (domain.ChecklistItem, error)
}

func (m *mockChecklists) ResolveUser(context.Context, domain.Profile) (domain.User, error) {
	return m.user, nil
}
func (m *mockChecklists) ListForUser(context.Context, uuid.UUID) ([]domain.Checklist, error) {
	return m.lists, nil
}
func (m *mockChecklists) GetOwned(_ context.Context, userID, checklistID uuid.UUID) (domain.ChecklistWithItems, error) {
	return m.getOwned(userID, checklistID)
}
func (m *mockChecklists) DeleteItemOwned(_ context.Context, userID, itemID uuid.UUID) (domain.ChecklistItem, error) {
	return m.deleteItem(userID, itemID)
}

var _ Checklists = (*mockChecklists)(nil)

// ---- helpers ----------------------------------------------------------------

const chatID = int64(500)

var from = &tgbotapi.User{ID: 42, UserName: "ana", FirstName: "Ana"}

func command(name string) tgbotapi.Update {
	text := "/" + name
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     from,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func text(s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{From: from, Chat: &tgbotapi.Chat{ID: chatID}, Text: s}}
}

func press(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    from,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}

func buttonData(m tgbotapi.MessageConfig) []string {
	kb, ok := m.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		return nil
	}
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != nil {
				out = append(out, *b.CallbackData)
			}
		}
	}
	return out
}

func newTestBot(d Dialogue, c Checklists) (*Bot, *fakeSender) {
	api := &fakeSender{}
	return New(api, d, c, conversation.Links{Local: "http://localhost:8000"}, nil), api
}

func storedChecklist(owner uuid.UUID) domain.ChecklistWithItems {
	id := uuid.New()
	return domain.ChecklistWithItems{
		Checklist: domain.Checklist{
			ID:      id,
			OwnerID: owner,
			Title:   "Lisbon from 25.06.2030 (beach vacation, 5 days)",
			TripMetadata: domain.TripMetadata{
				Destination:       "Lisbon",
				StartDate:         "25.06.2030",
				DurationDays:      5,
				PurposeText:       "beach vacation",
				AggregatedWeather: &domain.WeatherSummary{Descriptions: []string{"clear sky"}},
			},
		},
		Items: []domain.ChecklistItem{
			{ID: uuid.New(), ChecklistID: id, Title: "Passport", Category: "Documents & money"},
			{ID: uuid.New(), ChecklistID: id, Title: "Swimsuit", Category: "Clothing"},
		},
	}
}

// ---- commands ---------------------------------------------------------------

func TestBot_Commands(t *testing.T) {
	d := &mockDialogue{}
	b, api := newTestBot(d, &mockChecklists{})
	ctx := context.Background()

	b.HandleUpdate(ctx, command("start"))
	assert.Contains(t, api.last(t).Text, "Hi, Ana!")
	assert.Equal(t, []string{cmdNewTrip, cmdMyLists, cmdNewList}, buttonData(api.last(t)))

	b.HandleUpdate(ctx, command("help"))
	assert.Contains(t, api.last(t).Text, "/newtrip")

	b.HandleUpdate(ctx, command("newtrip"))
	b.HandleUpdate(ctx, command("cancel"))
	assert.Equal(t, 1, d.started)
	assert.Equal(t, 1, d.canceled)

	b.HandleUpdate(ctx, command("newlist"))
	assert.Contains(t, buttonData(api.last(t)), "stub:shopping")
}

func TestBot_TextGoesToDialogue(t *testing.T) {
	d := &mockDialogue{active: true}
	b, api := newTestBot(d, &mockChecklists{})

	b.HandleUpdate(context.Background(), text("Lisbon"))

	assert.Equal(t, []string{"Lisbon"}, d.texts)
	assert.Empty(t, api.sent)
}

func TestBot_TextWithoutConversation(t *testing.T) {
	b, api := newTestBot(&mockDialogue{}, &mockChecklists{})

	b.HandleUpdate(context.Background(), text("hello"))

	assert.Contains(t, api.last(t).Text, "/newtrip")
}

func TestBot_MyLists(t *testing.T) {
	c := storedChecklist(uuid.New())
	b, api := newTestBot(&mockDialogue{}, &mockChecklists{lists: []domain.Checklist{c.Checklist}})

	b.HandleUpdate(context.Background(), command("mylists"))

	assert.Equal(t, []string{"view:" + c.Checklist.ID.String(), "menu"}, buttonData(api.last(t)))
}

func TestBot_MyLists_Empty(t *testing.T) {
	b, api := newTestBot(&mockDialogue{}, &mockChecklists{})

	b.HandleUpdate(context.Background(), command("mylists"))

	assert.Contains(t, api.last(t).Text, "no saved lists")
}

// ---- callbacks --------------------------------------------------------------

func TestBot_PurposeButton(t *testing.T) {
	d := &mockDialogue{active: true}
	b, api := newTestBot(d, &mockChecklists{})

	b.HandleUpdate(context.Background(), press("purpose:beach"))

	assert.Equal(t, []string{"beach holiday"}, d.texts)
	require.Len(t, api.requests, 1, "callback is answered")
}

func TestBot_PurposeButton_Expired(t *testing.T) {
	b, api := newTestBot(&mockDialogue{}, &mockChecklists{})

	b.HandleUpdate(context.Background(), press("purpose:beach"))

	assert.Contains(t, api.last(t).Text, "expired")
}

func TestBot_View(t *testing.T) {
	owner := domain.User{ID: uuid.New()}
	c := storedChecklist(owner.ID)
	b, api := newTestBot(&mockDialogue{}, &mockChecklists{
		user: owner,
		getOwned: func(userID, id uuid.UUID) (domain.ChecklistWithItems, error) {
			assert.Equal(t, owner.ID, userID)
			return c, nil
		},
	})

	b.HandleUpdate(context.Background(), press("view:"+c.Checklist.ID.String()))

	msg := api.last(t)
	assert.Contains(t, msg.Text, "📍 Destination: Lisbon")
	assert.Contains(t, msg.Text, "Conditions: clear sky")
	assert.Contains(t, msg.Text, "🔹 Documents & money:\n  • Passport")
	assert.Contains(t, msg.Text, "http://localhost:8000/checklist/"+c.Checklist.ID.String())
	assert.Contains(t, buttonData(msg), "edit:"+c.Checklist.ID.String())
}

func TestBot_View_Forbidden(t *testing.T) {
	b, api := newTestBot(&mockDialogue{}, &mockChecklists{
		getOwned: func(uuid.UUID, uuid.UUID) (domain.ChecklistWithItems, error) {
			return domain.ChecklistWithItems{}, domain.ErrForbidden
		},
	})

	b.HandleUpdate(context.Background(), press("view:"+uuid.NewString()))

	assert.Equal(t, "You do not have access to this list.", api.last(t).Text)
}

func TestBot_View_BadID(t *testing.T) {
	b, api := newTestBot(&mockDialogue{}, &mockChecklists{})

	b.HandleUpdate(context.Background(), press("view:not-a-uuid"))

	assert.Contains(t, api.last(t).Text, "not found")
}

func TestBot_EditListsItemsAsDeleteButtons(t *testing.T) {
	c := storedChecklist(uuid.New())
	b, api := newTestBot(&mockDialogue{}, &mockChecklists{
		getOwned: func(uuid.UUID, uuid.UUID) (domain.ChecklistWithItems, error) { return c, nil },
	})

	b.HandleUpdate(context.Background(), press("edit:"+c.Checklist.ID.String()))

	data := buttonData(api.last(t))
	assert.Contains(t, data, "del:"+c.Items[0].ID.String())
	assert.Contains(t, data, "del:"+c.Items[1].ID.String())
	assert.Contains(t, api.last(t).Text, "/checklist/"+c.Checklist.ID.String()+"/edit")
}

func TestBot_DeleteItem(t *testing.T) {
	c := storedChecklist(uuid.New())
	removed := c.Items[0]
	b, api := newTestBot(&mockDialogue{}, &mockChecklists{
		deleteItem: func(_ uuid.UUID, itemID uuid.UUID) (domain.ChecklistItem, error) {
			assert.Equal(t, removed.ID, itemID)
			return removed, nil
		},
		getOwned: func(uuid.UUID, uuid.UUID) (domain.ChecklistWithItems, error) {
			return domain.ChecklistWithItems{Checklist: c.Checklist, Items: c.Items[1:]}, nil
		},
	})

	b.HandleUpdate(context.Background(), press("del:"+removed.ID.String()))

	require.Len(t, api.sent, 2)
	assert.Equal(t, "🗑 Deleted \"Passport\".", api.sent[0].Text)
	assert.NotContains(t, buttonData(api.sent[1]), "del:"+removed.ID.String())
}

func TestBot_DeleteItem_Forbidden(t *testing.T) {
	b, api := newTestBot(&mockDialogue{}, &mockChecklists{
		deleteItem: func(uuid.UUID, uuid.UUID) (domain.ChecklistItem, error) {
			return domain.ChecklistItem{}, domain.ErrForbidden
		},
	})

	b.HandleUpdate(context.Background(), press("del:"+uuid.NewString()))

	require.Len(t, api.sent, 1)
	assert.Equal(t, "You do not have access to this list.", api.sent[0].Text)
}

func TestBot_ShareIsStub(t *testing.T) {
	c := storedChecklist(uuid.New())
	b, api := newTestBot(&mockDialogue{}, &mockChecklists{
		getOwned: func(uuid.UUID, uuid.UUID) (domain.ChecklistWithItems, error) { return c, nil },
	})

	b.HandleUpdate(context.Background(), press("share:"+c.Checklist.ID.String()))

	assert.Contains(t, api.last(t).Text, "coming soon")
}

// ---- outbox -----------------------------------------------------------------

func TestChatOutbox_SplitsLongMessages(t *testing.T) {
	api := &fakeSender{}
	out := &chatOutbox{api: api, chatID: chatID}
	line := strings.Repeat("x", 99) + "\n"
	long := strings.Repeat(line, 100)

	id, err := out.Send(context.Background(), conversation.Reply{
		Text:    long,
		Buttons: [][]conversation.Button{{{Text: "Menu", Data: "menu"}}},
	})

	require.NoError(t, err)
	require.Len(t, api.sent, 3)
	assert.Equal(t, 3, id)
	assert.Equal(t, long, api.sent[0].Text+api.sent[1].Text+api.sent[2].Text)
	assert.Nil(t, api.sent[0].ReplyMarkup)
	assert.Equal(t, []string{"menu"}, buttonData(api.sent[2]))
}

func TestSplit_VeryLongLine(t *testing.T) {
	parts := split(strings.Repeat("é", 10), 4)

	assert.Equal(t, []string{"éééé", "éééé", "éé"}, parts)
}
