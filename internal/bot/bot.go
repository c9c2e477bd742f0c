// Package bot wires the loan desk's long-running components together and
// manages their lifecycle: the HTTP server, the optional Telegram poller and
// the task scheduler.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"
)

// Bot manages the lifecycle of the running components.
type Bot struct {
	logger          *slog.Logger
	server          *http.Server
	tgBot           *tgbot.Bot
	scheduler       *Scheduler
	shutdownTimeout time.Duration
}

// NewBot creates the orchestrator. tgBot may be nil when Telegram is disabled.
func NewBot(
	logger *slog.Logger,
	server *http.Server,
	tgBot *tgbot.Bot,
	scheduler *Scheduler,
	shutdownTimeout time.Duration,
) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		logger:          logger.With("component", "bot_orchestrator"),
		server:          server,
		tgBot:           tgBot,
		scheduler:       scheduler,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails, then shuts the others down.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	ln, err := net.Listen("tcp", b.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", b.server.Addr, err)
	}

	g.Go(func() error {
		b.logger.Info("Starting HTTP server...", "addr", ln.Addr().String())
		if err := b.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			b.logger.Error("HTTP server stopped unexpectedly", "error", err)
			return fmt.Errorf("http server: %w", err)
		}
		b.logger.Info("HTTP server stopped.")
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gCtx), b.shutdownTimeout)
		defer cancel()
		if err := b.server.Shutdown(shutdownCtx); err != nil {
			b.logger.Error("Error shutting down HTTP server", "error", err)
		}
		return nil
	})

	if b.tgBot != nil {
		g.Go(func() error {
			b.logger.Info("Starting Telegram bot listener...")

			b.tgBot.Start(gCtx)
			b.logger.Info("Telegram bot listener stopped.")

			if gCtx.Err() == nil {
				b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
				return fmt.Errorf("telegram listener stopped unexpectedly")
			}
			return nil
		})
	}

	if b.scheduler != nil {
		g.Go(func() error {
			b.logger.Info("Starting scheduler...")
			if err := b.scheduler.Start(); err != nil {
				b.logger.Error("Failed to start scheduler", "error", err)
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			b.logger.Info("Shutdown signal received, stopping scheduler...")

			if err := b.scheduler.Stop(); err != nil {
				b.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err = g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
