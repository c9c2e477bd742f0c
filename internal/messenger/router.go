package messenger

import (
	"context"
	"strings"
)

type route struct {
	prefix    string
	messenger Messenger
}

// Router dispatches deliveries to a platform by the prefix of the reply
// handle or channel id. Ids without a registered prefix go to the fallback.
type Router struct {
	fallback Messenger
	routes   []route
}

// NewRouter returns a Router sending unprefixed ids to fallback.
func NewRouter(fallback Messenger) *Router {
	if fallback == nil {
		fallback = Disabled{}
	}
	return &Router{fallback: fallback}
}

// Handle registers m for ids starting with prefix.
func (r *Router) Handle(prefix string, m Messenger) *Router {
	r.routes = append(r.routes, route{prefix: prefix, messenger: m})
	return r
}

func (r *Router) pick(id string) Messenger {
	for _, rt := range r.routes {
		if strings.HasPrefix(id, rt.prefix) {
			return rt.messenger
		}
	}
	return r.fallback
}

// Configured reports whether any route can deliver.
func (r *Router) Configured() bool {
	if r.fallback.Configured() {
		return true
	}
	for _, rt := range r.routes {
		if rt.messenger.Configured() {
			return true
		}
	}
	return false
}

func (r *Router) Reply(ctx context.Context, handle, text string) error {
	m := r.pick(handle)
	if !m.Configured() {
		return ErrNotConfigured
	}
	return m.Reply(ctx, handle, text)
}

func (r *Router) Push(ctx context.Context, channelID, text string) error {
	m := r.pick(channelID)
	if !m.Configured() {
		return ErrNotConfigured
	}
	return m.Push(ctx, channelID, text)
}
