// Package notify posts recognized combos to an HTTP webhook.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrStatus is wrapped by Notify when the webhook answers with a non-2xx status.
var ErrStatus = errors.New("webhook returned error status")

// Payload is the JSON body posted for each accepted combo.
type Payload struct {
	ID        string    `json:"id"`
	Gesture   string    `json:"gesture"`
	Timestamp time.Time `json:"timestamp"`
}

// Webhook posts payloads to a fixed URL.
type Webhook struct {
	url    string
	client *resty.Client
	log    *zap.Logger
}

// NewWebhook creates a Webhook posting to url with a per-request timeout.
func NewWebhook(url string, timeout time.Duration, log *zap.Logger) *Webhook {
	if log == nil {
		log = zap.NewNop()
	}
	return &Webhook{
		url: url,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("User-Agent", "spellcast"),
		log: log.Named("webhook"),
	}
}

// URL returns the target URL.
func (w *Webhook) URL() string {
	return w.url
}

// Notify posts p and waits for the response.
func (w *Webhook) Notify(ctx context.Context, p Payload) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(p).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("%w: %s, body: %s", ErrStatus, resp.Status(), resp.String())
	}

	w.log.Debug("webhook delivered",
		zap.String("gesture", p.Gesture),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("took", resp.Time()))
	return nil
}
