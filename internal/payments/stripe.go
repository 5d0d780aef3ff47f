package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeCheckout implements Checkout against the Stripe API.
type StripeCheckout struct {
	api *client.API
}

var _ Checkout = (*StripeCheckout)(nil)

// NewStripeCheckout creates a checkout client with its own API handle. The
// global stripe key is left untouched.
func NewStripeCheckout(apiKey string) *StripeCheckout {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeCheckout{api: api}
}

func (c *StripeCheckout) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(req.Amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.EventName),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.AddMetadata(MetadataDiscordID, req.DiscordUserID)
	params.AddMetadata(MetadataEventID, fmt.Sprintf("%d", req.EventID))
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

// StripeWebhookVerifier implements WebhookVerifier using the endpoint's
// signing secret.
type StripeWebhookVerifier struct {
	secret string
}

var _ WebhookVerifier = (*StripeWebhookVerifier)(nil)

func NewStripeWebhookVerifier(secret string) *StripeWebhookVerifier {
	return &StripeWebhookVerifier{secret: secret}
}

func (v *StripeWebhookVerifier) Verify(payload []byte, signature string) (*WebhookEvent, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("webhook verification failed: %w", err)
	}

	out := &WebhookEvent{
		Type:     string(evt.Type),
		Metadata: map[string]string{},
	}
	if id, ok := evt.Data.Object["id"].(string); ok {
		out.SessionID = id
	}
	if meta, ok := evt.Data.Object["metadata"].(map[string]any); ok {
		for k, val := range meta {
			if s, ok := val.(string); ok {
				out.Metadata[k] = s
			}
		}
	}
	return out, nil
}
