// Package messengertest provides a recording Messenger for tests.
package messengertest

import (
	"context"
	"errors"
	"sync"
)

// ErrDelivery is returned when a failure is configured.
var ErrDelivery = errors.New("delivery failed")

// Delivery is one recorded Reply or Push.
type Delivery struct {
	Target string
	Text   string
}

// Recorder records deliveries. The zero value is configured and never fails.
type Recorder struct {
	Unconfigured bool
	FailReply    bool
	FailPush     bool
	// FailPushTo fails pushes to the listed channel ids only.
	FailPushTo map[string]bool

	mu      sync.Mutex
	replies []Delivery
	pushes  []Delivery
}

func (r *Recorder) Configured() bool { return !r.Unconfigured }

func (r *Recorder) Reply(_ context.Context, handle, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReply {
		return ErrDelivery
	}
	r.replies = append(r.replies, Delivery{Target: handle, Text: text})
	return nil
}

func (r *Recorder) Push(_ context.Context, channelID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailPush || r.FailPushTo[channelID] {
		return ErrDelivery
	}
	r.pushes = append(r.pushes, Delivery{Target: channelID, Text: text})
	return nil
}

// Replies returns a copy of the recorded replies.
func (r *Recorder) Replies() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.replies...)
}

// Pushes returns a copy of the recorded pushes.
func (r *Recorder) Pushes() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.pushes...)
}
