package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/loan"
	"github.com/edgard/loandesk/internal/text"
)

type openCaseHandler struct {
	deps    HandlerDeps
	replier *Replier
}

// Handle parses the new-case payload, persists the case under a fresh id and
// confirms it to the sender.
func (h openCaseHandler) Handle(ctx context.Context, req *Request) {
	log := h.deps.Logger.With("handler", "open_case", "channel_id", req.Chat.ID)

	fields, err := text.ParseNewCasePayload(req.Args)
	if err != nil {
		var verr *text.ValidationError
		if errors.As(err, &verr) {
			log.DebugContext(ctx, "Rejected new case payload", "reason", verr.Message)
			h.replier.Reply(ctx, req, verr.Message, "")
			return
		}
		log.ErrorContext(ctx, "Unexpected payload parse failure", "error", err)
		h.replier.Reply(ctx, req, h.deps.Config.Messages.SaveFailed, "")
		return
	}

	now := h.deps.Now().UTC()
	status := h.deps.Config.Cases.InitialStatus
	app := &database.Application{
		CreatedAt:         now,
		UpdatedAt:         now,
		PartnerID:         req.Partner.ID,
		PartnerName:       sql.NullString{String: req.Partner.Name, Valid: true},
		BankName:          sql.NullString{String: h.deps.Config.Bank.Name, Valid: true},
		CustomerName:      fields.CustomerName,
		MonthlyIncome:     fields.MonthlyIncome,
		LoanAmount:        fields.LoanAmount,
		PropertyType:      fields.PropertyType,
		ProjectName:       fields.ProjectName,
		Status:            status,
		StatusGroup:       loan.GroupOf(status),
		LastStatusUpdated: sql.NullTime{Time: now, Valid: true},
	}

	if err := h.insert(ctx, app); err != nil {
		log.ErrorContext(ctx, "Failed to save new case", "error", err)
		h.replier.Reply(ctx, req, h.deps.Config.Messages.SaveFailed, "")
		return
	}
	log.InfoContext(ctx, "Opened new case", "case_id", app.ID, "partner_id", app.PartnerID)

	h.replier.LogIncoming(ctx, req, app.ID)
	h.replier.Reply(ctx, req, confirmation(app), app.ID)
}

// insert assigns a case id and stores the case, drawing a new id on collision.
func (h openCaseHandler) insert(ctx context.Context, app *database.Application) error {
	attempts := max(h.deps.Config.Cases.IDAttempts, 1)
	idTime := app.CreatedAt.In(text.Bangkok)

	for attempt := 1; attempt <= attempts; attempt++ {
		app.ID = h.deps.NewCaseID(idTime)
		err := h.deps.Store.CreateApplication(ctx, app)
		if err == nil {
			return nil
		}
		if !errors.Is(err, database.ErrCaseIDTaken) {
			return err
		}
		h.deps.Logger.WarnContext(ctx, "Case id already taken, drawing another", "case_id", app.ID, "attempt", attempt)
	}
	return fmt.Errorf("no free case id after %d attempts: %w", attempts, database.ErrCaseIDTaken)
}

func confirmation(app *database.Application) string {
	var b strings.Builder
	b.WriteString("✅ เปิดเคสใหม่แล้ว\n")
	fmt.Fprintf(&b, "เลขเคส: %s\n", app.ID)
	fmt.Fprintf(&b, "ชื่อลูกค้า: %s\n", app.CustomerName)
	fmt.Fprintf(&b, "เงินเดือน: %s\n", text.Baht(app.MonthlyIncome))
	fmt.Fprintf(&b, "ยอดกู้: %s\n", text.Baht(app.LoanAmount))
	fmt.Fprintf(&b, "โครงการ: %s", app.ProjectName)
	return b.String()
}
