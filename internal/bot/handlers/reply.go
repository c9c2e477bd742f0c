package handlers

import (
	"context"
	"log/slog"

	"github.com/edgard/loandesk/internal/database"
)

// Replier logs conversation lines and delivers replies.
type Replier struct {
	deps   HandlerDeps
	logger *slog.Logger
}

// NewReplier creates a Replier.
func NewReplier(deps HandlerDeps) *Replier {
	deps = deps.withDefaults()
	return &Replier{deps: deps, logger: deps.Logger.With("component", "replier")}
}

// LogIncoming appends an inbound log line tagged with caseID. Failures are logged only.
func (r *Replier) LogIncoming(ctx context.Context, req *Request, caseID string) {
	entry := &database.ConversationLog{
		CaseID:      nullString(caseID),
		ChannelID:   req.Chat.ID,
		Role:        req.Chat.Role,
		Direction:   database.DirectionIncoming,
		ChannelKind: req.Chat.ConversationKind,
		MessageText: req.Text,
		RawPayload:  req.rawPayload(),
		CreatedAt:   r.deps.Now().UTC(),
	}
	if err := r.deps.Store.AppendConversationLog(ctx, entry); err != nil {
		r.logger.WarnContext(ctx, "Failed to log incoming message", "channel_id", req.Chat.ID, "error", err)
	}
}

// Reply logs text as an outgoing bot line tagged with caseID, then answers
// through the reply handle and falls back to a push on the channel.
func (r *Replier) Reply(ctx context.Context, req *Request, text, caseID string) {
	entry := &database.ConversationLog{
		CaseID:      nullString(caseID),
		ChannelID:   req.Chat.ID,
		Role:        database.RoleBot,
		Direction:   database.DirectionOutgoing,
		ChannelKind: req.Chat.ConversationKind,
		MessageText: text,
		CreatedAt:   r.deps.Now().UTC(),
	}
	if err := r.deps.Store.AppendConversationLog(ctx, entry); err != nil {
		r.logger.WarnContext(ctx, "Failed to log outgoing message", "channel_id", req.Chat.ID, "error", err)
	}

	if !r.deps.Messenger.Configured() {
		r.logger.WarnContext(ctx, "Skip sending message because the messenger is not configured", "channel_id", req.Chat.ID)
		return
	}

	if req.Event.ReplyHandle != "" {
		err := r.deps.Messenger.Reply(ctx, req.Event.ReplyHandle, text)
		if err == nil {
			return
		}
		r.logger.WarnContext(ctx, "Reply failed, falling back to push", "channel_id", req.Chat.ID, "error", err)
	}

	if err := r.deps.Messenger.Push(ctx, req.Chat.ID, text); err != nil {
		r.logger.ErrorContext(ctx, "Push fallback failed", "channel_id", req.Chat.ID, "error", err)
	}
}
