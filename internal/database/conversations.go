package database

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// AppendConversationLog appends a log line. CreatedAt defaults to now.
func (s *sqlxStore) AppendConversationLog(ctx context.Context, entry *ConversationLog) error {
	if entry == nil {
		return fmt.Errorf("cannot save nil conversation log")
	}
	if entry.ChannelID == "" {
		return fmt.Errorf("conversation log must have a channel_id")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.exec(ctx, s.db, s.builder.
		Insert("conversation_logs").
		Columns("case_id", "channel_id", "role", "direction", "channel_kind", "message_text", "raw_payload", "created_at").
		Values(entry.CaseID, entry.ChannelID, entry.Role, entry.Direction, entry.ChannelKind,
			entry.MessageText, entry.RawPayload, entry.CreatedAt))
	if err != nil {
		s.logFailure(ctx, "Error appending conversation log", err,
			"channel_id", entry.ChannelID, "direction", entry.Direction)
		return fmt.Errorf("failed to append conversation log for channel %s: %w", entry.ChannelID, err)
	}
	return nil
}

// ResolveChannelsForCase returns each partner channel that has a log line tagged with caseID.
func (s *sqlxStore) ResolveChannelsForCase(ctx context.Context, caseID string) ([]Channel, error) {
	channels := []Channel{}
	err := s.selectAll(ctx, &channels, s.builder.
		Select("p.channel_id", "p.channel_kind").
		Distinct().
		From("conversation_logs l").
		Join("partners p ON p.channel_id = l.channel_id").
		Where(sq.Eq{"l.case_id": caseID}).
		OrderBy("p.channel_id"))
	if err != nil {
		s.logFailure(ctx, "Error resolving channels for case", err, "case_id", caseID)
		return nil, fmt.Errorf("failed to resolve channels for case %s: %w", caseID, err)
	}
	return channels, nil
}

// ListConversationLogs returns the log lines tagged with caseID, oldest first.
func (s *sqlxStore) ListConversationLogs(ctx context.Context, caseID string) ([]ConversationLog, error) {
	logs := []ConversationLog{}
	err := s.selectAll(ctx, &logs, s.builder.
		Select("id", "case_id", "channel_id", "role", "direction", "channel_kind", "message_text", "raw_payload", "created_at").
		From("conversation_logs").
		Where(sq.Eq{"case_id": caseID}).
		OrderBy("created_at ASC", "id ASC"))
	if err != nil {
		s.logFailure(ctx, "Error listing conversation logs", err, "case_id", caseID)
		return nil, fmt.Errorf("failed to list conversation logs for case %s: %w", caseID, err)
	}
	return logs, nil
}

// DeleteLogsForCase removes every log line tagged with caseID.
func (s *sqlxStore) DeleteLogsForCase(ctx context.Context, caseID string) error {
	affected, err := s.exec(ctx, s.db, s.builder.
		Delete("conversation_logs").
		Where(sq.Eq{"case_id": caseID}))
	if err != nil {
		s.logFailure(ctx, "Error deleting conversation logs", err, "case_id", caseID)
		return fmt.Errorf("failed to delete conversation logs for case %s: %w", caseID, err)
	}

	s.logger.DebugContext(ctx, "Deleted conversation logs", "case_id", caseID, "count", affected)
	return nil
}
