package notify

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"time"

	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/messenger"
)

// Result counts the outcome of a Broadcast.
type Result struct {
	Channels  int
	Delivered int
	Failed    int
}

// Fanout pushes case updates to every resolved channel and logs each
// successful delivery.
type Fanout struct {
	resolver  *Resolver
	store     database.Store
	messenger messenger.Messenger
	logger    *slog.Logger
	now       func() time.Time
}

// NewFanout creates a Fanout. now defaults to time.Now.
func NewFanout(resolver *Resolver, store database.Store, m messenger.Messenger, logger *slog.Logger, now func() time.Time) *Fanout {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if now == nil {
		now = time.Now
	}
	return &Fanout{
		resolver:  resolver,
		store:     store,
		messenger: m,
		logger:    logger.With("component", "fanout"),
		now:       now,
	}
}

// Broadcast pushes text to the channels of caseID. A failed push is logged
// and skipped. The returned error only reports resolution failures.
func (f *Fanout) Broadcast(ctx context.Context, caseID, text string) (Result, error) {
	var res Result

	if !f.messenger.Configured() {
		f.logger.WarnContext(ctx, "Skipping case notification, messenger not configured", "case_id", caseID)
		return res, nil
	}

	channels, err := f.resolver.Resolve(ctx, caseID)
	if err != nil {
		f.logger.ErrorContext(ctx, "Failed to resolve notification channels", "case_id", caseID, "error", err)
		return res, err
	}
	res.Channels = len(channels)

	for _, ch := range channels {
		if err := f.messenger.Push(ctx, ch.ID, text); err != nil {
			res.Failed++
			f.logger.WarnContext(ctx, "Case notification push failed", "case_id", caseID, "channel_id", ch.ID, "error", err)
			continue
		}
		res.Delivered++

		entry := &database.ConversationLog{
			CaseID:      sql.NullString{String: caseID, Valid: true},
			ChannelID:   ch.ID,
			Role:        database.RoleBot,
			Direction:   database.DirectionOutgoing,
			ChannelKind: ch.ConversationKind(),
			MessageText: text,
			CreatedAt:   f.now().UTC(),
		}
		if err := f.store.AppendConversationLog(ctx, entry); err != nil {
			f.logger.WarnContext(ctx, "Failed to log case notification", "case_id", caseID, "channel_id", ch.ID, "error", err)
		}
	}

	f.logger.InfoContext(ctx, "Case notification sent",
		"case_id", caseID, "channels", res.Channels, "delivered", res.Delivered, "failed", res.Failed)
	return res, nil
}
