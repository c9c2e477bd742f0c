package telegram

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/loandesk/internal/messenger"
)

// EventFromUpdate converts a text message update into a chat event. Group and
// supergroup chats become group sources; everything else is a user source
// keyed by chat id.
func EventFromUpdate(update *models.Update) (messenger.Event, bool) {
	if update == nil || update.Message == nil || update.Message.Text == "" {
		return messenger.Event{}, false
	}
	msg := update.Message

	src := messenger.Source{Kind: messenger.SourceUser, UserID: ChannelID(msg.Chat.ID)}
	switch msg.Chat.Type {
	case models.ChatTypeGroup, models.ChatTypeSupergroup:
		src = messenger.Source{Kind: messenger.SourceGroup, GroupID: ChannelID(msg.Chat.ID)}
		if msg.From != nil {
			src.UserID = ChannelID(msg.From.ID)
		}
	}

	raw, err := json.Marshal(update)
	if err != nil {
		raw = nil
	}

	return messenger.Event{
		Type:        messenger.EventMessage,
		Message:     messenger.Message{Type: messenger.MessageText, Text: msg.Text},
		Source:      src,
		ReplyHandle: ReplyHandle(msg.Chat.ID, msg.ID),
		Raw:         raw,
	}, true
}

// BatchHandler is satisfied by the chat dispatcher.
type BatchHandler interface {
	HandleBatch(ctx context.Context, events []messenger.Event)
}

// NewUpdateHandler returns the default handler for the poller: every text
// message is handed to h as a single-event batch.
func NewUpdateHandler(h BatchHandler, logger *slog.Logger) bot.HandlerFunc {
	log := logger.With("component", "telegram_updates")

	return func(ctx context.Context, _ *bot.Bot, update *models.Update) {
		ev, ok := EventFromUpdate(update)
		if !ok {
			log.DebugContext(ctx, "Ignoring non-text update", "update_id", update.ID)
			return
		}
		h.HandleBatch(ctx, []messenger.Event{ev})
	}
}
