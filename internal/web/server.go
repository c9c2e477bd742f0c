// Package web serves the LINE webhook and the officer dashboard over gin.
package web

import (
	"context"
	"embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edgard/loandesk/internal/backoffice"
	"github.com/edgard/loandesk/internal/logger"
	"github.com/edgard/loandesk/internal/messenger"
)

//go:embed templates/*.html
var templateFS embed.FS

// BatchHandler consumes the events of one webhook delivery.
type BatchHandler interface {
	HandleBatch(ctx context.Context, events []messenger.Event)
}

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds what the HTTP surface needs.
type Deps struct {
	Logger     *slog.Logger
	Backoffice *backoffice.Service
	Events     BatchHandler
	Health     Pinger
	// LineSecret enables webhook signature verification when set.
	LineSecret string
}

// Server owns the gin engine.
type Server struct {
	deps   Deps
	engine *gin.Engine
	logger *slog.Logger
}

// NewServer builds the engine and registers every route.
func NewServer(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), logger.GinMiddleware(deps.Logger))
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		deps:   deps,
		engine: engine,
		logger: deps.Logger.With("component", "web"),
	}
	s.RegisterRoutes(&engine.RouterGroup)
	return s, nil
}

// Handler exposes the engine as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// RegisterRoutes attaches the webhook, dashboard and health routes to r.
func (s *Server) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})
	r.GET("/healthz", s.Healthz)

	r.GET("/webhook", s.VerifyWebhook)
	r.POST("/webhook", s.Webhook)

	admin := r.Group("/admin")
	{
		admin.GET("/dashboard", s.Dashboard)
		admin.GET("/app/:id", s.CaseDetail)
		admin.POST("/app/:id", s.UpdateCaseForm)
		admin.POST("/update", s.UpdateCaseJSON)
		admin.POST("/delete-case/:id", s.DeleteCase)
		admin.POST("/delete-partner/:id", s.DeletePartner)
	}
}

// Healthz pings the store.
func (s *Server) Healthz(c *gin.Context) {
	if s.deps.Health != nil {
		if err := s.deps.Health.Ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
