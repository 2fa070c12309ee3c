// Package telegram adapts Telegram updates to the trip conversation and the
// saved-list browser. It holds no business rules of its own.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/pkordes/packlist/internal/conversation"
	"github.com/pkordes/packlist/internal/domain"
)

// Dialogue is the trip conversation the bot drives.
type Dialogue interface {
	Start(ctx context.Context, p domain.Profile, out conversation.Outbox)
	Cancel(ctx context.Context, p domain.Profile, out conversation.Outbox)
	Handle(ctx context.Context, p domain.Profile, text string, out conversation.Outbox) bool
}

// Checklists is the saved-list access the bot needs. Every call is scoped to
// the acting user.
type Checklists interface {
	ResolveUser(ctx context.Context, p domain.Profile) (domain.User, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Checklist, error)
	GetOwned(ctx context.Context, userID, checklistID uuid.UUID) (domain.ChecklistWithItems, error)
	DeleteItemOwned(ctx context.Context, userID, itemID uuid.UUID) (domain.ChecklistItem, error)
}

var _ Dialogue = (*conversation.Machine)(nil)

// Bot routes commands, free text, and button presses.
type Bot struct {
	api    Sender
	dialog Dialogue
	lists  Checklists
	links  conversation.Links
	log    *slog.Logger
}

// New constructs a Bot.
func New(api Sender, dialog Dialogue, lists Checklists, links conversation.Links, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}
	return &Bot{api: api, dialog: dialog, lists: lists, links: links, log: log}
}

// Run handles updates until ctx is cancelled or the channel closes. Each
// update gets its own goroutine so a slow generation for one user does not
// hold up the others. Run waits for in-flight updates before returning.
func (b *Bot) Run(ctx context.Context, ch tgbotapi.UpdatesChannel) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-ch:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.HandleUpdate(ctx, u)
			}()
		}
	}
}

// HandleUpdate processes one update. Panics are logged and swallowed.
func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic while handling update", "update_id", u.UpdateID, "panic", r)
		}
	}()

	switch {
	case u.CallbackQuery != nil:
		updates.WithLabelValues("callback").Inc()
		b.onCallback(ctx, u.CallbackQuery)
	case u.Message != nil && u.Message.From != nil:
		if u.Message.IsCommand() {
			updates.WithLabelValues("command").Inc()
			b.onCommand(ctx, u.Message)
			return
		}
		updates.WithLabelValues("text").Inc()
		b.onText(ctx, u.Message)
	default:
		updates.WithLabelValues("ignored").Inc()
	}
}

func profile(u *tgbotapi.User) domain.Profile {
	return domain.Profile{
		ExternalID: u.ID,
		Username:   u.UserName,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
	}
}

func (b *Bot) outbox(chatID int64) *chatOutbox {
	return &chatOutbox{api: b.api, chatID: chatID}
}

func (b *Bot) reply(ctx context.Context, out *chatOutbox, r conversation.Reply) {
	if _, err := out.Send(ctx, r); err != nil {
		b.log.Warn("send failed", "chat_id", out.chatID, "error", err)
	}
}

func (b *Bot) onCommand(ctx context.Context, m *tgbotapi.Message) {
	p := profile(m.From)
	out := b.outbox(m.Chat.ID)
	b.log.Info("user interaction", "user_id", p.ExternalID, "username", p.Username, "action", "command", "command", m.Command())

	switch m.Command() {
	case "start":
		b.reply(ctx, out, welcomeReply(p.FirstName))
	case "help":
		b.reply(ctx, out, conversation.Reply{Text: helpText})
	case "newtrip":
		b.dialog.Start(ctx, p, out)
	case "cancel":
		b.dialog.Cancel(ctx, p, out)
	case "mylists":
		b.showLists(ctx, p, out)
	case "newlist":
		b.reply(ctx, out, newListReply())
	default:
		b.reply(ctx, out, conversation.Reply{Text: "Unknown command. Use /help to see what I can do."})
	}
}

func (b *Bot) onText(ctx context.Context, m *tgbotapi.Message) {
	p := profile(m.From)
	out := b.outbox(m.Chat.ID)
	if b.dialog.Handle(ctx, p, m.Text, out) {
		return
	}
	b.reply(ctx, out, conversation.Reply{Text: "Use /newtrip to create a packing list or /help to see all commands."})
}

func (b *Bot) onCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.log.Warn("callback answer failed", "error", err)
	}
	if q.Message == nil || q.From == nil {
		return
	}

	p := profile(q.From)
	out := b.outbox(q.Message.Chat.ID)
	data := q.Data
	b.log.Info("user interaction", "user_id", p.ExternalID, "username", p.Username, "action", "button", "data", data)

	switch {
	case data == conversation.ActionMenu:
		b.reply(ctx, out, welcomeReply(p.FirstName))
	case data == cmdNewTrip:
		b.dialog.Start(ctx, p, out)
	case data == cmdMyLists:
		b.showLists(ctx, p, out)
	case data == cmdNewList:
		b.reply(ctx, out, newListReply())
	case strings.HasPrefix(data, stubPrefix):
		b.reply(ctx, out, conversation.Reply{Text: "🚧 This list type is coming soon. Meanwhile try /newtrip.", Buttons: menuRow()})
	case strings.HasPrefix(data, conversation.ActionPurpose):
		text, ok := conversation.SuggestionText(strings.TrimPrefix(data, conversation.ActionPurpose))
		if !ok || !b.dialog.Handle(ctx, p, text, out) {
			b.reply(ctx, out, conversation.Reply{Text: "This question has expired. Use /newtrip to start again."})
		}
	case strings.HasPrefix(data, conversation.ActionView):
		b.withChecklist(ctx, p, out, strings.TrimPrefix(data, conversation.ActionView), b.viewReply)
	case strings.HasPrefix(data, conversation.ActionEdit):
		b.withChecklist(ctx, p, out, strings.TrimPrefix(data, conversation.ActionEdit), b.editReply)
	case strings.HasPrefix(data, conversation.ActionShare):
		b.withChecklist(ctx, p, out, strings.TrimPrefix(data, conversation.ActionShare), b.shareReply)
	case strings.HasPrefix(data, conversation.ActionDelete):
		b.deleteItem(ctx, p, out, strings.TrimPrefix(data, conversation.ActionDelete))
	default:
		b.log.Warn("unknown callback data", "data", data)
	}
}

func (b *Bot) showLists(ctx context.Context, p domain.Profile, out *chatOutbox) {
	u, err := b.lists.ResolveUser(ctx, p)
	if err != nil {
		b.fail(ctx, out, fmt.Errorf("telegram.Bot.showLists: %w", err))
		return
	}
	lists, err := b.lists.ListForUser(ctx, u.ID)
	if err != nil {
		b.fail(ctx, out, fmt.Errorf("telegram.Bot.showLists: %w", err))
		return
	}
	b.reply(ctx, out, listsReply(lists))
}

func (b *Bot) withChecklist(ctx context.Context, p domain.Profile, out *chatOutbox, rawID string, render func(domain.ChecklistWithItems) conversation.Reply) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		b.fail(ctx, out, domain.ErrNotFound)
		return
	}
	u, err := b.lists.ResolveUser(ctx, p)
	if err != nil {
		b.fail(ctx, out, err)
		return
	}
	c, err := b.lists.GetOwned(ctx, u.ID, id)
	if err != nil {
		b.fail(ctx, out, err)
		return
	}
	b.reply(ctx, out, render(c))
}

func (b *Bot) deleteItem(ctx context.Context, p domain.Profile, out *chatOutbox, rawID string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		b.fail(ctx, out, domain.ErrNotFound)
		return
	}
	u, err := b.lists.ResolveUser(ctx, p)
	if err != nil {
		b.fail(ctx, out, err)
		return
	}
	it, err := b.lists.DeleteItemOwned(ctx, u.ID, id)
	if err != nil {
		b.fail(ctx, out, err)
		return
	}
	b.log.Info("user interaction", "user_id", p.ExternalID, "action", "delete_item", "item_id", it.ID)
	b.reply(ctx, out, conversation.Reply{Text: fmt.Sprintf("🗑 Deleted \"%s\".", it.Title)})

	c, err := b.lists.GetOwned(ctx, u.ID, it.ChecklistID)
	if err != nil {
		b.fail(ctx, out, err)
		return
	}
	b.reply(ctx, out, b.editReply(c))
}

// fail maps err to a short chat message.
func (b *Bot) fail(ctx context.Context, out *chatOutbox, err error) {
	var text string
	switch {
	case errors.Is(err, domain.ErrNotFound):
		text = "The list was not found or has been deleted."
	case errors.Is(err, domain.ErrForbidden):
		text = "You do not have access to this list."
	default:
		b.log.Error("bot request failed", "chat_id", out.chatID, "error", err)
		text = "😔 Something went wrong. Please try again later."
	}
	b.reply(ctx, out, conversation.Reply{Text: text, Buttons: menuRow()})
}
