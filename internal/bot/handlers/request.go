package handlers

import (
	"database/sql"

	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/messenger"
)

// Chat describes the conversation an event arrived on.
type Chat struct {
	// ID is the partner channel id: the group id for groups, else the user id.
	ID string
	// Kind is the partner channel kind.
	Kind string
	// ConversationKind is recorded on log lines.
	ConversationKind string
	// Role is the sender role recorded on inbound log lines.
	Role string
}

// chatOf identifies the channel of an event. Returns false when the event
// carries no usable id.
func chatOf(src messenger.Source) (Chat, bool) {
	if src.Kind == messenger.SourceGroup {
		return Chat{
			ID:               src.GroupID,
			Kind:             database.ChannelGroup,
			ConversationKind: database.KindGroupChat,
			Role:             database.RoleBank,
		}, src.GroupID != ""
	}
	return Chat{
		ID:               src.UserID,
		Kind:             database.ChannelIndividual,
		ConversationKind: database.KindIndividualChat,
		Role:             database.RolePartner,
	}, src.UserID != ""
}

// Request is one inbound text message being handled.
type Request struct {
	Event   messenger.Event
	Chat    Chat
	Partner *database.Partner
	// Text is the normalized message.
	Text string
	// Args is the text after the command trigger, trimmed.
	Args string
	// MentionedCaseID is the case id found anywhere in Text, if any.
	MentionedCaseID string
}

func (r *Request) rawPayload() sql.NullString {
	if len(r.Event.Raw) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(r.Event.Raw), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
