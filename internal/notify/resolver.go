// Package notify resolves the chat channels interested in a case and pushes
// case updates to them.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/edgard/loandesk/internal/database"
)

// Resolver finds push destinations for a case.
type Resolver struct {
	store  database.Store
	logger *slog.Logger
}

// NewResolver creates a Resolver over store.
func NewResolver(store database.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{store: store, logger: logger.With("component", "channel_resolver")}
}

// Resolve returns every partner channel that has talked about caseID. When
// none has, the owning partner's channel is returned instead. Unknown cases
// and partners resolve to an empty list.
func (r *Resolver) Resolve(ctx context.Context, caseID string) ([]database.Channel, error) {
	found, err := r.store.ResolveChannelsForCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channels for case %s: %w", caseID, err)
	}

	seen := make(map[string]struct{}, len(found))
	channels := make([]database.Channel, 0, len(found))
	for _, ch := range found {
		if _, dup := seen[ch.ID]; dup {
			continue
		}
		seen[ch.ID] = struct{}{}
		channels = append(channels, ch)
	}
	if len(channels) > 0 {
		return channels, nil
	}

	app, err := r.store.GetApplicationByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load case %s: %w", caseID, err)
	}
	if app == nil {
		r.logger.DebugContext(ctx, "No channels for unknown case", "case_id", caseID)
		return channels, nil
	}

	partner, err := r.store.FindPartnerByID(ctx, app.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owner of case %s: %w", caseID, err)
	}
	if partner == nil {
		r.logger.WarnContext(ctx, "Case owner no longer exists", "case_id", caseID, "partner_id", app.PartnerID)
		return channels, nil
	}

	r.logger.DebugContext(ctx, "Falling back to case owner channel", "case_id", caseID, "channel_id", partner.ChannelID)
	return append(channels, database.Channel{ID: partner.ChannelID, Kind: partner.ChannelKind}), nil
}
