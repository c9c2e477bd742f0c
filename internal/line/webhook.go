package line

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/edgard/loandesk/internal/messenger"
)

// ErrInvalidSignature is returned when the X-Line-Signature header does not
// match the request body.
var ErrInvalidSignature = errors.New("invalid line signature")

// SignatureHeader carries the HMAC-SHA256 of the body.
const SignatureHeader = "X-Line-Signature"

// VerifySignature checks the body signature. An empty secret disables the check.
func VerifySignature(secret, signature string, body []byte) error {
	if secret == "" {
		return nil
	}
	if signature == "" || !webhook.ValidateSignature(secret, signature, body) {
		return ErrInvalidSignature
	}
	return nil
}

// ParseEvents decodes a webhook body. Every delivered event is returned in
// order; events other than messages keep only their type and source so the
// dispatcher can skip them. Raw holds the JSON of each individual event.
func ParseEvents(body []byte) ([]messenger.Event, error) {
	var cb webhook.CallbackRequest
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, fmt.Errorf("failed to decode line callback: %w", err)
	}
	var rawBody struct {
		Events []json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(body, &rawBody); err != nil {
		return nil, fmt.Errorf("failed to decode line events: %w", err)
	}

	events := make([]messenger.Event, 0, len(cb.Events))
	for i, e := range cb.Events {
		ev := convertEvent(e)
		if i < len(rawBody.Events) {
			ev.Raw = []byte(rawBody.Events[i])
		}
		events = append(events, ev)
	}
	return events, nil
}

func convertEvent(e webhook.EventInterface) messenger.Event {
	me, ok := e.(webhook.MessageEvent)
	if !ok {
		return messenger.Event{Type: e.GetType()}
	}

	ev := messenger.Event{
		Type:        messenger.EventMessage,
		Source:      convertSource(me.Source),
		ReplyHandle: me.ReplyToken,
	}
	switch m := me.Message.(type) {
	case webhook.TextMessageContent:
		ev.Message = messenger.Message{Type: messenger.MessageText, Text: m.Text}
	case nil:
	default:
		ev.Message = messenger.Message{Type: m.GetType()}
	}
	return ev
}

func convertSource(src webhook.SourceInterface) messenger.Source {
	switch s := src.(type) {
	case webhook.UserSource:
		return messenger.Source{Kind: messenger.SourceUser, UserID: s.UserId}
	case webhook.GroupSource:
		return messenger.Source{Kind: messenger.SourceGroup, GroupID: s.GroupId, UserID: s.UserId}
	case webhook.RoomSource:
		return messenger.Source{Kind: messenger.SourceRoom, UserID: s.UserId}
	default:
		return messenger.Source{}
	}
}
