package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/edgard/loandesk/internal/database"
	"github.com/edgard/loandesk/internal/loan"
	"github.com/edgard/loandesk/internal/messenger"
	"github.com/edgard/loandesk/internal/text"
)

type matcher struct {
	name     string
	triggers text.Rules[string]
	handle   CommandFunc
}

// Dispatcher runs the inbound pipeline for chat events.
type Dispatcher struct {
	deps     HandlerDeps
	replier  *Replier
	commands []matcher
	help     CommandFunc
	logger   *slog.Logger
}

// NewDispatcher wires the registered commands.
func NewDispatcher(deps HandlerDeps) *Dispatcher {
	deps = deps.withDefaults()
	r := NewReplier(deps)

	d := &Dispatcher{
		deps:    deps,
		replier: r,
		help:    helpHandler{deps: deps, replier: r}.Handle,
		logger:  deps.Logger.With("component", "dispatcher"),
	}
	for _, cmd := range RegisterAllCommands(deps, r) {
		rules := make(text.Rules[string], 0, len(cmd.Triggers))
		for _, trigger := range cmd.Triggers {
			rules = append(rules, text.Rule[string]{Trigger: trigger, Result: trigger})
		}
		d.commands = append(d.commands, matcher{name: cmd.Name, triggers: rules, handle: cmd.Handler})
	}
	return d
}

// HandleBatch handles each event independently. A failing or panicking
// event is logged and never affects the others.
func (d *Dispatcher) HandleBatch(ctx context.Context, events []messenger.Event) {
	for i, ev := range events {
		if err := d.safeHandle(ctx, ev); err != nil {
			d.logger.ErrorContext(ctx, "Event handling aborted", "index", i, "error", err)
		}
	}
}

func (d *Dispatcher) safeHandle(ctx context.Context, ev messenger.Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			d.logger.ErrorContext(ctx, "Recovered from panic in event handler", "panic", rec, "stack", string(debug.Stack()))
		}
	}()
	d.HandleEvent(ctx, ev)
	return nil
}

// HandleEvent runs identify, ensure-partner, log, classify, execute and reply
// for a single event. Non-text events are ignored.
func (d *Dispatcher) HandleEvent(ctx context.Context, ev messenger.Event) {
	if !ev.IsText() {
		d.logger.DebugContext(ctx, "Ignoring non-text event", "type", ev.Type, "message_type", ev.Message.Type)
		return
	}

	chat, ok := chatOf(ev.Source)
	if !ok {
		d.logger.WarnContext(ctx, "Ignoring event without channel id", "source_kind", ev.Source.Kind)
		return
	}

	if timeout := d.deps.Config.Database.OperationTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req := &Request{
		Event: ev,
		Chat:  chat,
		Text:  text.Normalize(ev.Message.Text),
	}
	if id, ok := text.ExtractCaseID(req.Text); ok {
		req.MentionedCaseID = id
	}
	log := d.logger.With("channel_id", chat.ID, "role", chat.Role)

	partner, err := d.ensurePartner(ctx, chat)
	if err != nil {
		log.ErrorContext(ctx, "Failed to bind partner to channel", "error", err)
		d.replier.Reply(ctx, req, d.deps.Config.Messages.PartnerLinkFailed, req.MentionedCaseID)
		return
	}
	req.Partner = partner

	d.replier.LogIncoming(ctx, req, req.MentionedCaseID)

	if status, ok := loan.ExtractStatusKeyword(req.Text); ok {
		log.DebugContext(ctx, "Message mentions a status", "status", status)
	}

	for _, cmd := range d.commands {
		if _, rest, ok := cmd.triggers.LongestPrefix(req.Text); ok {
			req.Args = strings.TrimSpace(rest)
			log.InfoContext(ctx, "Handling chat command", "command", cmd.name, "partner_id", partner.ID)
			cmd.handle(ctx, req)
			return
		}
	}

	log.DebugContext(ctx, "No command matched, sending help")
	d.help(ctx, req)
}

// ensurePartner returns the partner bound to the channel, creating it on first contact.
func (d *Dispatcher) ensurePartner(ctx context.Context, chat Chat) (*database.Partner, error) {
	partner, err := d.deps.Store.FindPartnerByChannel(ctx, chat.ID)
	if err != nil {
		return nil, err
	}
	if partner != nil {
		return partner, nil
	}

	now := d.deps.Now()
	created := &database.Partner{
		Name:        "partner-" + strconv.FormatInt(now.UnixMilli(), 10),
		ChannelID:   chat.ID,
		ChannelKind: chat.Kind,
		CreatedAt:   now.UTC(),
	}
	if err := d.deps.Store.CreatePartner(ctx, created); err != nil {
		d.logger.WarnContext(ctx, "Partner insert failed, re-reading", "channel_id", chat.ID, "error", err)
	}

	partner, err = d.deps.Store.FindPartnerByChannel(ctx, chat.ID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, fmt.Errorf("partner for channel %s missing after insert", chat.ID)
	}
	return partner, nil
}
