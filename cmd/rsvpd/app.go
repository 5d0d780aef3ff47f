package main

import (
	"log/slog"
	"time"

	"github.com/groblegark/rsvpd/internal/config"
	"github.com/groblegark/rsvpd/internal/events"
	"github.com/groblegark/rsvpd/internal/gateway"
	"github.com/groblegark/rsvpd/internal/payments"
	"github.com/groblegark/rsvpd/internal/store/postgres"
	"github.com/groblegark/rsvpd/internal/timeutil"
)

// app bundles the dependencies shared by serve and the one-shot job
// commands.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *postgres.PostgresStore
	publisher events.Publisher
	discord   *gateway.Discord
	checkout  payments.Checkout
	templates *config.Templates
	location  *time.Location
}

// newApp loads configuration and connects the store, event bus, checkout
// client, and Discord session. The gateway socket is not opened; one-shot
// commands only need the REST surface.
func newApp() (*app, error) {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	templates, err := config.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		return nil, err
	}

	location, err := timeutil.Location(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	st, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var publisher events.Publisher
	if cfg.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			st.Close()
			return nil, err
		}
		publisher = pub
		logger.Info("events enabled", "nats_url", cfg.NATSURL)
	} else {
		publisher = &events.NoopPublisher{}
		logger.Info("events disabled (RSVPD_NATS_URL not set)")
	}

	discord, err := gateway.NewDiscord(cfg.DiscordToken, cfg.GuildID, logger)
	if err != nil {
		publisher.Close()
		st.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		publisher: publisher,
		discord:   discord,
		checkout:  payments.NewStripeCheckout(cfg.StripeKey),
		templates: templates,
		location:  location,
	}, nil
}

func (a *app) Close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("error closing publisher", "err", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing store", "err", err)
	}
}
