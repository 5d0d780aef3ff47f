// Package server exposes the HTTP surface: the Stripe webhook endpoint,
// the post-checkout landing pages, and a health probe.
package server

import (
	"context"
	"log/slog"

	"github.com/groblegark/rsvpd/internal/config"
	"github.com/groblegark/rsvpd/internal/events"
	"github.com/groblegark/rsvpd/internal/gateway"
	"github.com/groblegark/rsvpd/internal/model"
	"github.com/groblegark/rsvpd/internal/payments"
)

// Store is the persistence surface the webhook handler needs.
type Store interface {
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	GetUserByDiscordID(ctx context.Context, discordUserID string) (*model.User, error)
	UpsertRSVPGoing(ctx context.Context, userID, eventID int64, source model.RSVPSource) error
	MarkPaymentPaid(ctx context.Context, userID, eventID int64, sessionID string, amount int64) (bool, error)
	CancelPayment(ctx context.Context, userID, eventID int64) error
}

// Server handles webhook notifications and the public pages.
type Server struct {
	store     Store
	gateway   gateway.Session
	verifier  payments.WebhookVerifier
	bus       events.Publisher
	templates *config.Templates
	logger    *slog.Logger
}

// Options collects the Server dependencies.
type Options struct {
	Store     Store
	Gateway   gateway.Session
	Verifier  payments.WebhookVerifier
	Bus       events.Publisher
	Templates *config.Templates
	Logger    *slog.Logger
}

// New returns a Server wired to the given dependencies.
func New(opts Options) *Server {
	return &Server{
		store:     opts.Store,
		gateway:   opts.Gateway,
		verifier:  opts.Verifier,
		bus:       opts.Bus,
		templates: opts.Templates,
		logger:    opts.Logger,
	}
}

// publish emits a bus event; publish failures are logged, never propagated.
func (s *Server) publish(ctx context.Context, topic string, event any) {
	if err := s.bus.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("event publish failed", "topic", topic, "error", err)
	}
}
