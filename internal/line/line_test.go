package line_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/loandesk/internal/line"
	"github.com/edgard/loandesk/internal/messenger"
)

const callbackBody = `{
  "destination": "Udest",
  "events": [
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1738555506000,
      "webhookEventId": "01H0000000000000000000000A",
      "deliveryContext": {"isRedelivery": false},
      "replyToken": "reply-1",
      "source": {"type": "user", "userId": "U111"},
      "message": {"id": "1001", "type": "text", "quoteToken": "q1", "text": "#เช็คเคส HL-2025-0001"}
    },
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1738555507000,
      "webhookEventId": "01H0000000000000000000000B",
      "deliveryContext": {"isRedelivery": false},
      "replyToken": "reply-2",
      "source": {"type": "group", "groupId": "C222", "userId": "U333"},
      "message": {"id": "1002", "type": "text", "quoteToken": "q2", "text": "hello"}
    },
    {
      "type": "follow",
      "mode": "active",
      "timestamp": 1738555508000,
      "webhookEventId": "01H0000000000000000000000C",
      "deliveryContext": {"isRedelivery": false},
      "replyToken": "reply-3",
      "source": {"type": "user", "userId": "U111"},
      "follow": {"isUnblocked": false}
    }
  ]
}`

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	body := []byte(callbackBody)
	tests := []struct {
		name      string
		secret    string
		signature string
		wantErr   bool
	}{
		{name: "valid", secret: "s3cret", signature: sign("s3cret", body)},
		{name: "wrong secret", secret: "s3cret", signature: sign("other", body), wantErr: true},
		{name: "missing header", secret: "s3cret", wantErr: true},
		{name: "no secret configured", secret: "", signature: "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := line.VerifySignature(tt.secret, tt.signature, body)
			if tt.wantErr {
				assert.ErrorIs(t, err, line.ErrInvalidSignature)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseEvents(t *testing.T) {
	t.Parallel()

	events, err := line.ParseEvents([]byte(callbackBody))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.True(t, events[0].IsText())
	assert.Equal(t, "#เช็คเคส HL-2025-0001", events[0].Message.Text)
	assert.Equal(t, messenger.Source{Kind: messenger.SourceUser, UserID: "U111"}, events[0].Source)
	assert.Equal(t, "reply-1", events[0].ReplyHandle)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(events[0].Raw, &raw))
	assert.Equal(t, "reply-1", raw["replyToken"])

	assert.Equal(t, messenger.Source{Kind: messenger.SourceGroup, GroupID: "C222", UserID: "U333"}, events[1].Source)
	assert.False(t, events[2].IsText())

	_, err = line.ParseEvents([]byte("{not json"))
	assert.Error(t, err)

	events, err = line.ParseEvents([]byte(`{"destination":"U","events":[]}`))
	require.NoError(t, err)
	assert.Empty(t, events)
}

type fakeAPI struct {
	replies []*messaging_api.ReplyMessageRequest
	pushes  []*messaging_api.PushMessageRequest
	err     error
}

func (f *fakeAPI) ReplyMessage(_ context.Context, req *messaging_api.ReplyMessageRequest) error {
	f.replies = append(f.replies, req)
	return f.err
}

func (f *fakeAPI) PushMessage(_ context.Context, req *messaging_api.PushMessageRequest) error {
	f.pushes = append(f.pushes, req)
	return f.err
}

func TestClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeAPI{}
	c := line.NewClient(api)
	require.True(t, c.Configured())

	require.NoError(t, c.Reply(ctx, "reply-1", "สวัสดี"))
	require.NoError(t, c.Push(ctx, "U111", "อัปเดต"))
	require.Len(t, api.replies, 1)
	require.Len(t, api.pushes, 1)
	assert.Equal(t, "reply-1", api.replies[0].ReplyToken)
	assert.Equal(t, "U111", api.pushes[0].To)
	assert.Equal(t, []messaging_api.MessageInterface{messaging_api.TextMessage{Text: "อัปเดต"}}, api.pushes[0].Messages)

	assert.Error(t, c.Reply(ctx, "", "x"))
	assert.False(t, line.NewClient(nil).Configured())

	failing := line.NewClient(&fakeAPI{err: errors.New("429")})
	assert.Error(t, failing.Push(ctx, "U111", "x"))
}
