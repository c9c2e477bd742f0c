// Package handlers turns inbound chat events into case commands: it binds the
// sender to a partner, logs the conversation, classifies the command, runs it
// and replies through the messenger.
package handlers

import (
	"log/slog"
	"time"

	"github.com/edgard/loandesk/internal/config"
	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/loan"
	"github.com/edgard/loandesk/internal/messenger"
)

// HandlerDeps provides dependencies for chat command handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     database.Store
	Messenger messenger.Messenger
	// Now defaults to time.Now.
	Now func() time.Time
	// NewCaseID defaults to loan.RandomCaseID.
	NewCaseID loan.CaseIDFunc
}

func (d HandlerDeps) withDefaults() HandlerDeps {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewCaseID == nil {
		d.NewCaseID = loan.RandomCaseID
	}
	if d.Messenger == nil {
		d.Messenger = messenger.Disabled{}
	}
	return d
}
