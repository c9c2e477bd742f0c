package telegram

import (
	"fmt"
	"strconv"
	"strings"
)

// ChannelPrefix marks Telegram channel ids and reply handles.
const ChannelPrefix = "tg:"

// ChannelID formats a chat id as a channel id: tg:<chat id>.
func ChannelID(chatID int64) string {
	return ChannelPrefix + strconv.FormatInt(chatID, 10)
}

// ReplyHandle formats a reply handle: tg:<chat id>:<message id>.
func ReplyHandle(chatID int64, messageID int) string {
	return ChannelID(chatID) + ":" + strconv.Itoa(messageID)
}

// ParseChannelID extracts the chat id from a channel id.
func ParseChannelID(id string) (int64, error) {
	rest, ok := strings.CutPrefix(id, ChannelPrefix)
	if !ok {
		return 0, fmt.Errorf("not a telegram channel id: %q", id)
	}
	chatID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", id, err)
	}
	return chatID, nil
}

// ParseReplyHandle extracts the chat and message ids from a reply handle.
func ParseReplyHandle(handle string) (int64, int, error) {
	rest, ok := strings.CutPrefix(handle, ChannelPrefix)
	if !ok {
		return 0, 0, fmt.Errorf("not a telegram reply handle: %q", handle)
	}
	// Chat ids may be negative, so split on the last colon.
	i := strings.LastIndex(rest, ":")
	if i <= 0 {
		return 0, 0, fmt.Errorf("invalid telegram reply handle %q", handle)
	}
	chatID, err := strconv.ParseInt(rest[:i], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid telegram chat id in %q: %w", handle, err)
	}
	messageID, err := strconv.Atoi(rest[i+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid telegram message id in %q: %w", handle, err)
	}
	return chatID, messageID, nil
}
