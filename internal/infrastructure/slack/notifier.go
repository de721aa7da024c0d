package slack

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"TNSBot/internal/domain"
	"TNSBot/internal/ports"
)

// Notifier posts messages through the Slack Web API chat.postMessage method.
type Notifier struct {
	endpoint string
	token    string
	client   *resty.Client
}

var _ ports.Notifier = (*Notifier)(nil)

type postMessageRequest struct {
	Channel  string `json:"channel"`
	Text     string `json:"text"`
	Username string `json:"username,omitempty"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// NewNotifier registers the bot token and the chat.postMessage endpoint.
func NewNotifier(client *resty.Client, endpoint, token string) *Notifier {
	if client == nil {
		client = resty.New()
	}
	return &Notifier{endpoint: endpoint, token: token, client: client}
}

// PostMessage sends text to channel under the given display name.
func (n *Notifier) PostMessage(ctx context.Context, channel, text, username string) error {
	if n.token == "" || n.endpoint == "" {
		return fmt.Errorf("%w: slack notifier misconfigured", domain.ErrConfiguration)
	}

	var result postMessageResponse
	res, err := n.client.R().
		SetContext(ctx).
		SetAuthToken(n.token).
		SetBody(postMessageRequest{Channel: channel, Text: text, Username: username}).
		SetResult(&result).
		Post(n.endpoint)
	if err != nil {
		return fmt.Errorf("%w: post message: %w", domain.ErrDelivery, err)
	}
	if res.IsError() {
		return fmt.Errorf("%w: slack returned %s", domain.ErrDelivery, res.Status())
	}
	if !result.OK {
		return fmt.Errorf("%w: slack rejected message: %s", domain.ErrDelivery, result.Error)
	}

	return nil
}
