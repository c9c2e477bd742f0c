// Package messenger defines the chat delivery capability used by the
// dispatcher and the backoffice, and the platform-neutral inbound event.
package messenger

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by deliveries on a channel without credentials.
var ErrNotConfigured = errors.New("messenger not configured")

// Messenger delivers text to chat channels.
type Messenger interface {
	// Configured reports whether credentials are present. Callers skip
	// network calls when it returns false.
	Configured() bool
	// Reply answers an inbound message through its reply handle.
	Reply(ctx context.Context, handle, text string) error
	// Push sends an unsolicited message to a channel id.
	Push(ctx context.Context, channelID, text string) error
}

// Source kinds.
const (
	SourceUser  = "user"
	SourceGroup = "group"
	SourceRoom  = "room"
)

// Event types and message types.
const (
	EventMessage = "message"
	MessageText  = "text"
)

// Message is the inbound message body.
type Message struct {
	Type string
	Text string
}

// Source identifies who sent an event.
type Source struct {
	Kind    string
	UserID  string
	GroupID string
}

// Event is an inbound chat event normalized from a platform webhook or poll.
type Event struct {
	Type        string
	Message     Message
	Source      Source
	ReplyHandle string
	// Raw is the platform JSON for the event, stored with the inbound log.
	Raw []byte
}

// IsText reports whether the event is a text message.
func (e Event) IsText() bool {
	return e.Type == EventMessage && e.Message.Type == MessageText
}

// Disabled is a Messenger without credentials.
type Disabled struct{}

func (Disabled) Configured() bool { return false }

func (Disabled) Reply(context.Context, string, string) error { return ErrNotConfigured }

func (Disabled) Push(context.Context, string, string) error { return ErrNotConfigured }
