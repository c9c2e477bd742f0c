// Package loan holds the home-loan case rules shared by the chat engine and the
// back office: the status vocabulary, status grouping, LTV derivation and case ids.
package loan

import (
	"strings"

	"github.com/edgard/loandesk/internal/text"
)

// StatusGroup is the coarse classification of a free-text status label.
type StatusGroup string

const (
	GroupPending  StatusGroup = "pending"
	GroupApproved StatusGroup = "approved"
	GroupRejected StatusGroup = "rejected"
)

// Canonical status labels offered by the back office.
const (
	StatusApproved         = "อนุมัติแล้ว"
	StatusNotApproved      = "ไม่อนุมัติ"
	StatusAwaitingDocs     = "รอเอกสารเพิ่ม"
	StatusAwaitingAppraise = "รอประเมินราคา"
	StatusUnderReview      = "รอพิจารณา"
)

// InitialStatus is assigned to every newly opened case.
const InitialStatus = StatusUnderReview

const (
	approvedKeyword    = "อนุมัติ"
	notApprovedKeyword = "ไม่อนุมัติ"
)

// Statuses lists the labels in the order the update form presents them.
var Statuses = []string{
	StatusUnderReview,
	StatusAwaitingDocs,
	StatusAwaitingAppraise,
	StatusApproved,
	StatusNotApproved,
}

// StatusKeywords maps chat trigger phrases to canonical labels. Order matters:
// the first phrase contained in the text wins.
var StatusKeywords = text.Rules[string]{
	{Trigger: "อนุมัติแล้ว", Result: StatusApproved},
	{Trigger: "ไม่อนุมัติ", Result: StatusNotApproved},
	{Trigger: "รอเอกสาร", Result: StatusAwaitingDocs},
	{Trigger: "รอประเมิน", Result: StatusAwaitingAppraise},
	{Trigger: "รอพิจารณา", Result: StatusUnderReview},
}

// The negated phrase contains the approval phrase, so it has to be tested first.
var groupRules = text.Rules[StatusGroup]{
	{Trigger: notApprovedKeyword, Result: GroupRejected},
	{Trigger: approvedKeyword, Result: GroupApproved},
}

// GroupOf derives the status group from a status label.
func GroupOf(status string) StatusGroup {
	s := strings.TrimSpace(status)
	if s == "" {
		return GroupPending
	}
	if g, ok := groupRules.Contains(s); ok {
		return g
	}
	return GroupPending
}

// ParseGroup maps a dashboard tab name onto a group. Unknown names report false.
func ParseGroup(s string) (StatusGroup, bool) {
	switch g := StatusGroup(s); g {
	case GroupPending, GroupApproved, GroupRejected:
		return g, true
	default:
		return "", false
	}
}

// ExtractStatusKeyword infers a canonical status from free chat text.
// It is informational only; authoritative updates go through the back office.
func ExtractStatusKeyword(s string) (string, bool) {
	return StatusKeywords.Contains(strings.ToLower(s))
}
