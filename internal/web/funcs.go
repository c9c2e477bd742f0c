package web

import (
	"database/sql"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/edgard/loandesk/internal/text"
)

var templateFuncs = template.FuncMap{
	"baht":     text.Baht,
	"thaiDate": text.ThaiDate,
	"clock": func(t time.Time) string {
		return t.In(text.Bangkok).Format("15:04")
	},
	"orDash":     orDash,
	"nullString": nullString,
	"statusClass": func(status string) string {
		return StatusClass(status)
	},
	"scoreClass": func(score sql.NullString) string {
		return CreditScoreClass(score.String)
	},
	"ltvClass": func(ltv sql.NullString) string {
		return LTVClass(ltv.String)
	},
}

var statusPills = text.Rules[string]{
	{Trigger: "ไม่อนุมัติ", Result: "status-danger"},
	{Trigger: "อนุมัติ", Result: "status-success"},
	{Trigger: "รอเอกสาร", Result: "status-warning"},
	{Trigger: "รอประเมิน", Result: "status-info"},
}

// StatusClass returns the pill classes for a status label.
func StatusClass(status string) string {
	if class, ok := statusPills.Contains(strings.TrimSpace(status)); ok {
		return "status-pill " + class
	}
	return "status-pill status-default"
}

// CreditScoreClass grades a numeric credit score; anything else is neutral.
func CreditScoreClass(score string) string {
	n, err := strconv.ParseFloat(strings.TrimSpace(score), 64)
	switch {
	case err != nil:
		return "score-neutral"
	case n >= 760:
		return "score-good"
	case n >= 680:
		return "score-mid"
	default:
		return "score-low"
	}
}

// LTVClass flags loans at or above the collateral value.
func LTVClass(ltv string) string {
	n, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(ltv), "%"), 64)
	if err != nil || n < 100 {
		return "ltv-neutral"
	}
	return "ltv-high"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return text.Placeholder
	}
	return s
}

func nullString(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}
