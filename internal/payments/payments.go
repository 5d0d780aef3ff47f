// Package payments wraps the Stripe Checkout API and webhook verification
// behind narrow interfaces so the RSVP core and the HTTP server never touch
// Stripe types directly.
package payments

import "context"

// Metadata keys attached to every checkout session. The webhook handler uses
// them to route a payment notification back to the RSVP row it belongs to.
const (
	MetadataDiscordID = "discord_id"
	MetadataEventID   = "event_id"
)

// Webhook notification types the server acts on.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// SessionRequest describes one checkout session to create.
type SessionRequest struct {
	EventID       int64
	EventName     string
	DiscordUserID string
	Amount        int64 // smallest currency unit
	Currency      string
	SuccessURL    string
	CancelURL     string
	// IdempotencyKey dedupes retries at the provider. A repeated key returns
	// the original session instead of creating a second one.
	IdempotencyKey string
}

// Session is a created checkout session.
type Session struct {
	ID  string
	URL string
}

// Checkout creates payment sessions.
type Checkout interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// WebhookEvent is a verified payment notification.
type WebhookEvent struct {
	Type      string
	SessionID string
	Metadata  map[string]string
}

// DiscordID returns the discord user id the session was created for, or ""
// when the metadata is missing.
func (e *WebhookEvent) DiscordID() string {
	return e.Metadata[MetadataDiscordID]
}

// EventID returns the event id metadata value, or "" when missing.
func (e *WebhookEvent) EventID() string {
	return e.Metadata[MetadataEventID]
}

// WebhookVerifier checks a webhook payload signature and decodes it.
type WebhookVerifier interface {
	Verify(payload []byte, signature string) (*WebhookEvent, error)
}
