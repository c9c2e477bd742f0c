package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edgard/loandesk/internal/line"
)

// VerifyWebhook answers the platform's URL verification probe.
func (s *Server) VerifyWebhook(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Webhook hands a LINE delivery to the dispatcher. The platform redelivers on
// anything but 200, so every outcome is acknowledged with 200.
func (s *Server) Webhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := c.GetRawData()
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read webhook body", "error", err)
		c.String(http.StatusOK, "OK")
		return
	}

	if err := line.VerifySignature(s.deps.LineSecret, c.GetHeader(line.SignatureHeader), body); err != nil {
		s.logger.WarnContext(ctx, "Rejected webhook delivery", "error", err, "client_ip", c.ClientIP())
		c.String(http.StatusOK, "OK")
		return
	}

	events, err := line.ParseEvents(body)
	if err != nil {
		s.logger.WarnContext(ctx, "Malformed webhook body", "error", err, "size", len(body))
		c.String(http.StatusOK, "OK")
		return
	}

	s.logger.DebugContext(ctx, "Webhook delivery received", "events", len(events))
	if s.deps.Events != nil && len(events) > 0 {
		// Replies are still sent when the platform hangs up early.
		s.deps.Events.HandleBatch(context.WithoutCancel(ctx), events)
	}
	c.String(http.StatusOK, "OK")
}
