package database

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edgard/loandesk/internal/loan"
)

// Channel kinds stored on partners.
const (
	ChannelIndividual = "individual"
	ChannelGroup      = "group"
)

// Conversation roles.
const (
	RolePartner = "partner"
	RoleBank    = "bank"
	RoleBot     = "bot"
)

// Conversation directions.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// Conversation kinds recorded on every log line.
const (
	KindIndividualChat = "individual-chat"
	KindGroupChat      = "group-chat"
	KindBackoffice     = "backoffice"
)

// Partner is a referral agent identified by the chat channel it writes from.
type Partner struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	ChannelID   string    `db:"channel_id"`
	ChannelKind string    `db:"channel_kind"`
	CreatedAt   time.Time `db:"created_at"`
}

// Application is a home-loan case.
type Application struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	PartnerID    int64          `db:"partner_id"`
	PartnerName  sql.NullString `db:"partner_name"`
	BankName     sql.NullString `db:"bank_name"`
	CustomerName string         `db:"customer_name"`
	PropertyType string         `db:"property_type"`
	ProjectName  string         `db:"project_name"`

	MonthlyIncome   decimal.NullDecimal `db:"monthly_income"`
	LoanAmount      decimal.NullDecimal `db:"loan_amount"`
	CollateralValue decimal.NullDecimal `db:"collateral_value"`
	LTV             sql.NullString      `db:"ltv"`
	CreditScore     sql.NullString      `db:"credit_score"`

	Status            string           `db:"status"`
	StatusGroup       loan.StatusGroup `db:"status_group"`
	LastStatusUpdated sql.NullTime     `db:"last_status_updated"`
	OfficerName       sql.NullString   `db:"officer_name"`
}

// ConversationLog is one inbound or outbound message. Rows are never updated.
type ConversationLog struct {
	ID          int64          `db:"id"`
	CaseID      sql.NullString `db:"case_id"`
	ChannelID   string         `db:"channel_id"`
	Role        string         `db:"role"`
	Direction   string         `db:"direction"`
	ChannelKind string         `db:"channel_kind"`
	MessageText string         `db:"message_text"`
	RawPayload  sql.NullString `db:"raw_payload"`
	CreatedAt   time.Time      `db:"created_at"`
}

// Channel is a push destination resolved for a case.
type Channel struct {
	ID   string `db:"channel_id"`
	Kind string `db:"channel_kind"`
}

// ConversationKind maps the partner channel kind onto the kind recorded in logs.
func (c Channel) ConversationKind() string {
	if c.Kind == ChannelGroup {
		return KindGroupChat
	}
	return KindIndividualChat
}

// StatusUpdate carries the fields an officer can change on a case.
// CollateralValue and LTV are only written when valid.
type StatusUpdate struct {
	ID              string
	Status          string
	StatusGroup     loan.StatusGroup
	CreditScore     sql.NullString
	OfficerName     sql.NullString
	CollateralValue decimal.NullDecimal
	LTV             sql.NullString
	UpdatedAt       time.Time
}
