package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"

	"github.com/edgard/loandesk/internal/config"
	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/line"
	"github.com/edgard/loandesk/internal/messenger"
)

// newRouter routes deliveries to LINE by default. Without credentials the
// LINE route stays unconfigured and deliveries are skipped.
func newRouter(cfg *config.Config, log *slog.Logger) (*messenger.Router, error) {
	if !cfg.LINE.Configured() {
		log.Warn("LINE credentials missing, replies and notifications to LINE are disabled")
		return messenger.NewRouter(line.NewClient(nil)), nil
	}

	api, err := line.NewAPI(cfg.LINE.ChannelAccessToken, cfg.Database.OperationTimeout)
	if err != nil {
		return nil, err
	}
	return messenger.NewRouter(line.NewClient(api)), nil
}

// runMigrate implements `migrate up|down|version`.
func runMigrate(log *slog.Logger, opts database.Options, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: migrate up|down|version")
	}

	db, err := database.Connect(opts)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	m, err := database.NewMigrator(db.DB, opts.Dialect)
	if err != nil {
		return err
	}

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			log.Info("No migrations applied")
			return nil
		}
		if verr != nil {
			return verr
		}
		log.Info("Schema version", "version", version, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("unknown migrate command %q", args[0])
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", args[0], err)
	}
	log.Info("Migration applied", "command", args[0])
	return nil
}
