package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/text"
)

type checkCaseHandler struct {
	deps    HandlerDeps
	replier *Replier
}

// Handle looks a case up by id or customer name and replies with its details.
func (h checkCaseHandler) Handle(ctx context.Context, req *Request) {
	log := h.deps.Logger.With("handler", "check_case", "channel_id", req.Chat.ID)

	query := req.Args
	if query == "" {
		h.replier.Reply(ctx, req, h.deps.Config.Messages.PromptQuery, req.MentionedCaseID)
		return
	}

	app, err := h.lookup(ctx, query)
	if err != nil {
		log.ErrorContext(ctx, "Case lookup failed", "query", query, "error", err)
		h.replier.Reply(ctx, req, h.deps.Config.Messages.LookupFailed, req.MentionedCaseID)
		return
	}
	if app == nil {
		log.InfoContext(ctx, "Case not found", "query", query)
		h.replier.Reply(ctx, req, fmt.Sprintf(h.deps.Config.Messages.NotFound, query), req.MentionedCaseID)
		return
	}

	h.replier.LogIncoming(ctx, req, app.ID)
	h.replier.Reply(ctx, req, caseDetail(app), app.ID)
}

// lookup tries the normalized case id first, then the raw query as id or name.
func (h checkCaseHandler) lookup(ctx context.Context, query string) (*database.Application, error) {
	if id, ok := text.ExtractCaseID(query); ok {
		app, err := h.deps.Store.GetApplicationByID(ctx, id)
		if err != nil || app != nil {
			return app, err
		}
	}
	return h.deps.Store.FindApplication(ctx, query)
}

func caseDetail(app *database.Application) string {
	ltv := ""
	if app.LTV.Valid && app.LTV.String != "" {
		ltv = fmt.Sprintf(" (LTV %s)", app.LTV.String)
	}
	score := text.Placeholder
	if app.CreditScore.Valid && app.CreditScore.String != "" {
		score = app.CreditScore.String
	}

	var b strings.Builder
	b.WriteString("📌 รายละเอียดเคส\n")
	fmt.Fprintf(&b, "เลขเคส: %s\n", app.ID)
	fmt.Fprintf(&b, "ชื่อลูกค้า: %s\n", app.CustomerName)
	fmt.Fprintf(&b, "เงินเดือน: %s\n", text.Baht(app.MonthlyIncome))
	fmt.Fprintf(&b, "โครงการ: %s\n", app.ProjectName)
	fmt.Fprintf(&b, "ยอดกู้: %s%s\n", text.Baht(app.LoanAmount), ltv)
	fmt.Fprintf(&b, "สถานะ: %s\n", app.Status)
	fmt.Fprintf(&b, "เครดิตสกอร์: %s", score)
	return b.String()
}
