// Package line adapts the LINE Messaging API to the messenger capability and
// parses LINE webhook deliveries into chat events.
package line

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// API is the subset of the LINE messaging API used for delivery.
type API interface {
	ReplyMessage(ctx context.Context, req *messaging_api.ReplyMessageRequest) error
	PushMessage(ctx context.Context, req *messaging_api.PushMessageRequest) error
}

type sdkAPI struct {
	client *messaging_api.MessagingApiAPI
}

func (a sdkAPI) ReplyMessage(ctx context.Context, req *messaging_api.ReplyMessageRequest) error {
	_, err := a.client.WithContext(ctx).ReplyMessage(req)
	return err
}

func (a sdkAPI) PushMessage(ctx context.Context, req *messaging_api.PushMessageRequest) error {
	_, err := a.client.WithContext(ctx).PushMessage(req, "")
	return err
}

// NewAPI creates a messaging API client for a channel access token.
func NewAPI(token string, timeout time.Duration) (API, error) {
	client, err := messaging_api.NewMessagingApiAPI(token,
		messaging_api.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("failed to create LINE messaging client: %w", err)
	}
	return sdkAPI{client: client}, nil
}

// Client delivers text messages through LINE. Reply handles are LINE reply
// tokens and channel ids are user, group or room ids.
type Client struct {
	api API
}

// NewClient wraps api. A nil api yields an unconfigured client.
func NewClient(api API) *Client {
	return &Client{api: api}
}

func (c *Client) Configured() bool {
	return c.api != nil
}

func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	if replyToken == "" {
		return fmt.Errorf("line reply: empty reply token")
	}
	err := c.api.ReplyMessage(ctx, &messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   textMessages(text),
	})
	if err != nil {
		return fmt.Errorf("line reply: %w", err)
	}
	return nil
}

func (c *Client) Push(ctx context.Context, to, text string) error {
	err := c.api.PushMessage(ctx, &messaging_api.PushMessageRequest{
		To:       to,
		Messages: textMessages(text),
	})
	if err != nil {
		return fmt.Errorf("line push to %s: %w", to, err)
	}
	return nil
}

func textMessages(text string) []messaging_api.MessageInterface {
	return []messaging_api.MessageInterface{messaging_api.TextMessage{Text: text}}
}
