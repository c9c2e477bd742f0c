package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Sender is the part of *bot.Bot used for delivery.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Messenger delivers text through the Telegram Bot API.
type Messenger struct {
	sender Sender
}

// NewMessenger wraps a sender. A nil sender yields an unconfigured messenger.
func NewMessenger(sender Sender) *Messenger {
	return &Messenger{sender: sender}
}

func (m *Messenger) Configured() bool {
	return m.sender != nil
}

// Reply answers the message identified by handle, quoting it when it still exists.
func (m *Messenger) Reply(ctx context.Context, handle, text string) error {
	chatID, messageID, err := ParseReplyHandle(handle)
	if err != nil {
		return err
	}
	_, err = m.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
		ReplyParameters: &models.ReplyParameters{
			MessageID:                messageID,
			AllowSendingWithoutReply: true,
		},
	})
	if err != nil {
		return fmt.Errorf("telegram reply to chat %d: %w", chatID, err)
	}
	return nil
}

// Push sends text to a chat.
func (m *Messenger) Push(ctx context.Context, channelID, text string) error {
	chatID, err := ParseChannelID(channelID)
	if err != nil {
		return err
	}
	if _, err := m.sender.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		return fmt.Errorf("telegram push to chat %d: %w", chatID, err)
	}
	return nil
}
