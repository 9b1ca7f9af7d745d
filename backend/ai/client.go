// Package ai talks to an OpenAI-compatible chat completion endpoint. Everything else in the
// repository depends on the Completer port, never on the HTTP client.
package ai

import (
	"context"
	"strings"
	"time"

	"aulavirtual/backend/config"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Completer returns the assistant's reply to a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

var ErrNotConfigured = errors.New("ai: AI_API_KEY is not set")

type Client struct {
	http  *resty.Client
	model string
	ready bool
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.AIBaseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(cfg.AIAPIKey).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
		}).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)
	return &Client{http: http, model: cfg.AIModel, ready: cfg.AIAPIKey != ""}
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if !c.ready {
		return "", ErrNotConfigured
	}
	var out completionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(completionRequest{Model: c.model, Messages: messages, Temperature: 0.2}).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return "", errors.Wrap(err, "ai: completion request")
	}
	if resp.IsError() {
		msg := resp.Status()
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", errors.Errorf("ai: completion failed with %d: %s", resp.StatusCode(), msg)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("ai: completion returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
