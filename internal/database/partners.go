package database

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var partnerColumns = []string{"id", "name", "channel_id", "channel_kind", "created_at"}

// FindPartnerByChannel returns the partner bound to channelID, or nil when none is.
func (s *sqlxStore) FindPartnerByChannel(ctx context.Context, channelID string) (*Partner, error) {
	if channelID == "" {
		return nil, fmt.Errorf("channel_id cannot be empty")
	}

	var partner Partner
	found, err := s.get(ctx, &partner, s.builder.
		Select(partnerColumns...).
		From("partners").
		Where(sq.Eq{"channel_id": channelID}))
	if err != nil {
		s.logFailure(ctx, "Error finding partner by channel", err, "channel_id", channelID)
		return nil, fmt.Errorf("failed to find partner for channel %s: %w", channelID, err)
	}
	if !found {
		s.logger.DebugContext(ctx, "No partner bound to channel", "channel_id", channelID)
		return nil, nil
	}
	return &partner, nil
}

// CreatePartner inserts a partner. A concurrent insert for the same channel wins silently;
// callers re-read with FindPartnerByChannel.
func (s *sqlxStore) CreatePartner(ctx context.Context, partner *Partner) error {
	if partner == nil {
		return fmt.Errorf("cannot save nil partner")
	}
	if partner.ChannelID == "" {
		return fmt.Errorf("partner must have a channel_id")
	}

	affected, err := s.exec(ctx, s.db, s.builder.
		Insert("partners").
		Columns("name", "channel_id", "channel_kind", "created_at").
		Values(partner.Name, partner.ChannelID, partner.ChannelKind, partner.CreatedAt).
		Suffix("ON CONFLICT (channel_id) DO NOTHING"))
	if err != nil {
		s.logFailure(ctx, "Error creating partner", err, "channel_id", partner.ChannelID)
		return fmt.Errorf("failed to create partner for channel %s: %w", partner.ChannelID, err)
	}

	if affected == 0 {
		s.logger.DebugContext(ctx, "Partner already bound to channel", "channel_id", partner.ChannelID)
	} else {
		s.logger.InfoContext(ctx, "Partner created", "channel_id", partner.ChannelID, "name", partner.Name)
	}
	return nil
}

// FindPartnerByID returns a partner by id, or nil when it does not exist.
func (s *sqlxStore) FindPartnerByID(ctx context.Context, id int64) (*Partner, error) {
	var partner Partner
	found, err := s.get(ctx, &partner, s.builder.
		Select(partnerColumns...).
		From("partners").
		Where(sq.Eq{"id": id}))
	if err != nil {
		s.logFailure(ctx, "Error finding partner by id", err, "partner_id", id)
		return nil, fmt.Errorf("failed to find partner %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &partner, nil
}

// DeletePartner removes the partner and every log line written on its channel.
func (s *sqlxStore) DeletePartner(ctx context.Context, id int64) error {
	partner, err := s.FindPartnerByID(ctx, id)
	if err != nil {
		return err
	}
	if partner == nil {
		return ErrNotFound
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		logs, err := s.exec(ctx, tx, s.builder.
			Delete("conversation_logs").
			Where(sq.Eq{"channel_id": partner.ChannelID}))
		if err != nil {
			return fmt.Errorf("failed to delete logs for channel %s: %w", partner.ChannelID, err)
		}

		affected, err := s.exec(ctx, tx, s.builder.
			Delete("partners").
			Where(sq.Eq{"id": id}))
		if err != nil {
			return fmt.Errorf("failed to delete partner %d: %w", id, err)
		}
		if affected == 0 {
			return ErrNotFound
		}

		s.logger.DebugContext(ctx, "Deleted partner logs", "partner_id", id, "logs", logs)
		return nil
	})
	if err != nil {
		s.logFailure(ctx, "Error deleting partner", err, "partner_id", id)
		return err
	}

	s.logger.InfoContext(ctx, "Partner deleted", "partner_id", id, "channel_id", partner.ChannelID)
	return nil
}
