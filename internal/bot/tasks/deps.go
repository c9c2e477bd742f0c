// Package tasks implements the scheduled maintenance jobs.
package tasks

import (
	"log/slog"

	"github.com/edgard/loandesk/internal/config"
	"github.com/edgard/loandesk/internal/database"
)

// TaskDeps contains the dependencies shared by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
