package telegram

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pkordes/packlist/internal/conversation"
)

// maxMessageRunes is Telegram's limit on the text of one message.
const maxMessageRunes = 4096

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

var _ Sender = (*tgbotapi.BotAPI)(nil)

// chatOutbox delivers replies to one chat.
type chatOutbox struct {
	api    Sender
	chatID int64
}

var _ conversation.Outbox = (*chatOutbox)(nil)

// Send delivers r, splitting texts over the message limit at line breaks.
// Buttons go with the last part, whose ID is returned.
func (o *chatOutbox) Send(_ context.Context, r conversation.Reply) (int, error) {
	parts := split(r.Text, maxMessageRunes)
	var id int
	for i, part := range parts {
		msg := tgbotapi.NewMessage(o.chatID, part)
		if i == len(parts)-1 && len(r.Buttons) > 0 {
			msg.ReplyMarkup = keyboard(r.Buttons)
		}
		sent, err := o.api.Send(msg)
		if err != nil {
			return 0, fmt.Errorf("telegram.chatOutbox.Send: %w", err)
		}
		id = sent.MessageID
	}
	return id, nil
}

// Delete removes a message sent earlier to the chat.
func (o *chatOutbox) Delete(_ context.Context, messageID int) error {
	if _, err := o.api.Request(tgbotapi.NewDeleteMessage(o.chatID, messageID)); err != nil {
		return fmt.Errorf("telegram.chatOutbox.Delete: %w", err)
	}
	return nil
}

func keyboard(rows [][]conversation.Button) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
		}
		out = append(out, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

// split cuts text into parts of at most limit runes, preferring line breaks.
func split(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	var cur strings.Builder
	n := 0
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
			n = 0
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		for utf8.RuneCountInString(line) > limit {
			flush()
			r := []rune(line)
			parts = append(parts, string(r[:limit]))
			line = string(r[limit:])
		}
		ln := utf8.RuneCountInString(line)
		if n+ln > limit {
			flush()
		}
		cur.WriteString(line)
		n += ln
	}
	flush()
	return parts
}
