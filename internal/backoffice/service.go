// Package backoffice implements the officer-facing operations: listing and
// reading cases, applying status updates with notification, and purging data.
package backoffice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/loan"
	"github.com/edgard/loandesk/internal/notify"
	"github.com/edgard/loandesk/internal/text"
)

var (
	// ErrCaseNotFound is returned when the addressed case does not exist.
	ErrCaseNotFound = errors.New("case not found")
	// ErrPartnerNotFound is returned when the addressed partner does not exist.
	ErrPartnerNotFound = errors.New("partner not found")
	// ErrInvalidUpdate wraps request validation failures.
	ErrInvalidUpdate = errors.New("invalid status update")
)

// StatusUpdate is an officer's change to a case. Empty strings mean "not set".
type StatusUpdate struct {
	ID              string `validate:"required,max=32"`
	Status          string `validate:"max=200"`
	CreditScore     string `validate:"max=16"`
	OfficerName     string `validate:"max=200"`
	CollateralValue decimal.NullDecimal
}

// Service runs backoffice operations against the store.
type Service struct {
	store    database.Store
	fanout   *notify.Fanout
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a Service. now defaults to time.Now.
func NewService(store database.Store, fanout *notify.Fanout, logger *slog.Logger, now func() time.Time) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:    store,
		fanout:   fanout,
		validate: validator.New(),
		logger:   logger.With("component", "backoffice"),
		now:      now,
	}
}

// ApplyStatusUpdate stores the update, recomputing the status group and, when
// a positive collateral value arrives for a case with a known loan amount,
// the LTV. Every channel of the case is then notified. Once the write has
// committed the update counts as applied whatever happens to delivery.
func (s *Service) ApplyStatusUpdate(ctx context.Context, upd StatusUpdate) error {
	upd.ID = strings.TrimSpace(upd.ID)
	upd.Status = strings.TrimSpace(upd.Status)
	upd.CreditScore = strings.TrimSpace(upd.CreditScore)
	upd.OfficerName = strings.TrimSpace(upd.OfficerName)
	if err := s.validate.Struct(upd); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
	}
	log := s.logger.With("case_id", upd.ID)

	current, err := s.store.GetApplicationByID(ctx, upd.ID)
	if err != nil {
		return fmt.Errorf("failed to load case %s: %w", upd.ID, err)
	}
	if current == nil {
		return ErrCaseNotFound
	}

	now := s.now().UTC()
	write := database.StatusUpdate{
		ID:              upd.ID,
		Status:          upd.Status,
		StatusGroup:     loan.GroupOf(upd.Status),
		CreditScore:     nullString(upd.CreditScore),
		OfficerName:     nullString(upd.OfficerName),
		CollateralValue: upd.CollateralValue,
		UpdatedAt:       now,
	}
	if ltv, ok := loan.ComputeLTV(current.LoanAmount, upd.CollateralValue); ok {
		write.LTV = sql.NullString{String: ltv, Valid: true}
	}

	if err := s.store.UpdateApplicationStatus(ctx, write); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrCaseNotFound
		}
		log.ErrorContext(ctx, "Failed to persist status update", "error", err)
		return fmt.Errorf("failed to update case %s: %w", upd.ID, err)
	}
	log.InfoContext(ctx, "Status updated", "status", write.Status, "status_group", write.StatusGroup, "ltv", write.LTV.String)

	updated, err := s.store.GetApplicationByID(ctx, upd.ID)
	if err != nil {
		log.WarnContext(ctx, "Could not re-read case after update, skipping notification", "error", err)
		return nil
	}
	if updated == nil {
		return ErrCaseNotFound
	}

	if _, err := s.fanout.Broadcast(ctx, upd.ID, UpdateNotice(updated)); err != nil {
		log.WarnContext(ctx, "Status update notification failed", "error", err)
	}
	return nil
}

// UpdateNotice is the chat text pushed after a status change.
func UpdateNotice(app *database.Application) string {
	score := text.Placeholder
	if app.CreditScore.Valid && app.CreditScore.String != "" {
		score = app.CreditScore.String
	}

	var b strings.Builder
	b.WriteString("📢 อัปเดตเคส\n")
	fmt.Fprintf(&b, "เลขเคส: %s\n", app.ID)
	fmt.Fprintf(&b, "สถานะ: %s\n", app.Status)
	fmt.Fprintf(&b, "เครดิตสกอร์: %s\n", score)
	if app.OfficerName.Valid && app.OfficerName.String != "" {
		fmt.Fprintf(&b, "โดย: %s", app.OfficerName.String)
	}
	return b.String()
}

// List returns the cases of a dashboard tab, newest first. Unknown tabs list everything.
func (s *Service) List(ctx context.Context, tab string) ([]database.Application, error) {
	filter := database.ApplicationFilter{}
	if group, ok := loan.ParseGroup(tab); ok {
		filter.StatusGroup = string(group)
	}
	return s.store.ListApplications(ctx, filter)
}

// CaseView is a case with its conversation history.
type CaseView struct {
	Application *database.Application
	Partner     *database.Partner
	Logs        []database.ConversationLog
}

// Get returns a case and its conversation, or ErrCaseNotFound.
func (s *Service) Get(ctx context.Context, id string) (*CaseView, error) {
	app, err := s.store.GetApplicationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrCaseNotFound
	}

	partner, err := s.store.FindPartnerByID(ctx, app.PartnerID)
	if err != nil {
		return nil, err
	}
	logs, err := s.store.ListConversationLogs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CaseView{Application: app, Partner: partner, Logs: logs}, nil
}

// DeleteCase removes a case and every log line tagged with it.
func (s *Service) DeleteCase(ctx context.Context, id string) error {
	err := s.store.DeleteApplication(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		s.logger.InfoContext(ctx, "Deleting logs of a case that no longer exists", "case_id", id)
	} else if err != nil {
		return err
	}

	if err := s.store.DeleteLogsForCase(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Case purged", "case_id", id)
	return nil
}

// DeletePartner removes a partner and the log lines of its channel.
func (s *Service) DeletePartner(ctx context.Context, id int64) error {
	err := s.store.DeletePartner(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrPartnerNotFound
	}
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Partner purged", "partner_id", id)
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
