package handlers

import "context"

type helpHandler struct {
	deps    HandlerDeps
	replier *Replier
}

// Handle answers any message that is not a command with usage instructions.
func (h helpHandler) Handle(ctx context.Context, req *Request) {
	h.replier.Reply(ctx, req, h.deps.Config.Messages.Help, req.MentionedCaseID)
}
