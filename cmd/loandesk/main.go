// Package main contains the entrypoint for the loan desk service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/loandesk/internal/backoffice"
	"github.com/edgard/loandesk/internal/bot"
	"github.com/edgard/loandesk/internal/bot/handlers"
	"github.com/edgard/loandesk/internal/bot/tasks"
	"github.com/edgard/loandesk/internal/config"
	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/logger"
	"github.com/edgard/loandesk/internal/notify"
	"github.com/edgard/loandesk/internal/telegram"
	"github.com/edgard/loandesk/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires every component and blocks until shutdown. It returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	dialect, err := database.ParseDialect(cfg.Database.Driver)
	if err != nil {
		log.Error("Invalid database driver", "driver", cfg.Database.Driver, "error", err)
		return 1
	}
	opts := database.Options{
		Dialect:         dialect,
		Path:            cfg.Database.Path,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	if args := flag.Args(); len(args) > 0 {
		if args[0] != "migrate" {
			log.Error("Unknown command", "command", args[0])
			return 2
		}
		if err := runMigrate(log, opts, args[1:]); err != nil {
			log.Error("Migration command failed", "error", err)
			return 1
		}
		return 0
	}

	db, err := database.Open(opts)
	if err != nil {
		log.Error("Failed to open database", "driver", cfg.Database.Driver, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, dialect, log)

	router, err := newRouter(cfg, log)
	if err != nil {
		log.Error("Failed to initialize LINE client", "error", err)
		return 1
	}

	dispatcher := handlers.NewDispatcher(handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Store:     store,
		Messenger: router,
	})

	var tg *tgbot.Bot
	if cfg.Telegram.Enabled() {
		tg, err = telegram.NewTelegramBot(cfg.Telegram.Token, log,
			tgbot.WithMiddlewares(logger.TelegramMiddleware(log)),
			tgbot.WithDefaultHandler(telegram.NewUpdateHandler(dispatcher, log)),
			tgbot.WithHTTPClient(cfg.Telegram.PollTimeout, &http.Client{Timeout: 2 * cfg.Telegram.PollTimeout}),
		)
		if err != nil {
			log.Error("Failed to create Telegram bot", "error", err)
			return 1
		}
		router.Handle(telegram.ChannelPrefix, telegram.NewMessenger(tg))
	}

	fanout := notify.NewFanout(notify.NewResolver(store, log), store, router, log, nil)
	office := backoffice.NewService(store, fanout, log, nil)

	gin.SetMode(cfg.HTTP.Mode)
	srv, err := web.NewServer(web.Deps{
		Logger:     log,
		Backoffice: office,
		Events:     dispatcher,
		Health:     store,
		LineSecret: cfg.LINE.ChannelSecret,
	})
	if err != nil {
		log.Error("Failed to build HTTP server", "error", err)
		return 1
	}
	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port)),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, httpServer, tg, sched, cfg.HTTP.ShutdownTimeout)

	log.Info("Starting loan desk...", "addr", httpServer.Addr, "line", cfg.LINE.Configured(), "telegram", cfg.Telegram.Enabled())
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Loan desk stopped due to error", "error", err)
		return 1
	}

	log.Info("Loan desk stopped gracefully.")
	return 0
}
