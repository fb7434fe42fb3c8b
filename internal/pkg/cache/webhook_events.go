package cache

import (
	"context"
	"time"
)

const (
	webhookEventPrefix = "stripe:webhook:event:"
	WebhookEventTTL    = 24 * time.Hour
)

// WebhookEvents remembers Stripe event ids in the package client so
// redelivered events are only processed once.
type WebhookEvents struct {
	ttl time.Duration
}

func NewWebhookEvents() *WebhookEvents {
	return &WebhookEvents{ttl: WebhookEventTTL}
}

// MarkProcessed records eventID and reports whether this is the first time
// it was seen. Empty ids are never deduplicated.
func (w *WebhookEvents) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}
	return SetNX(ctx, webhookEventPrefix+eventID, time.Now().Unix(), w.ttl)
}

// Forget removes eventID so Stripe's redelivery is processed again.
func (w *WebhookEvents) Forget(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	return Delete(ctx, webhookEventPrefix+eventID)
}
