package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/groblegark/rsvpd/internal/config"
	"github.com/groblegark/rsvpd/internal/events"
	"github.com/groblegark/rsvpd/internal/gateway"
	"github.com/groblegark/rsvpd/internal/idgen"
	"github.com/groblegark/rsvpd/internal/model"
	"github.com/groblegark/rsvpd/internal/payments"
)

// PaymentSweepStore is the persistence surface the payment sweep needs.
type PaymentSweepStore interface {
	ListPaidEvents(ctx context.Context) ([]*model.Event, error)
	ListGoingUnpaid(ctx context.Context, eventID int64) ([]*model.User, error)
	UpsertPaymentSession(ctx context.Context, p *model.Payment) error
}

// PaymentSweepJob chases going RSVPs on fee-bearing events that never got a
// payment link, typically because the original DM failed or the session
// expired. Users with an open session are excluded by the store query.
type PaymentSweepJob struct {
	store     PaymentSweepStore
	gateway   gateway.Session
	checkout  payments.Checkout
	bus       events.Publisher
	templates *config.Templates
	logger    *slog.Logger
	currency  string
	publicURL string
}

// PaymentSweepOptions collects the PaymentSweepJob dependencies.
type PaymentSweepOptions struct {
	Store     PaymentSweepStore
	Gateway   gateway.Session
	Checkout  payments.Checkout
	Bus       events.Publisher
	Templates *config.Templates
	Logger    *slog.Logger
	Currency  string
	PublicURL string
}

func NewPaymentSweepJob(opts PaymentSweepOptions) *PaymentSweepJob {
	return &PaymentSweepJob{
		store:     opts.Store,
		gateway:   opts.Gateway,
		checkout:  opts.Checkout,
		bus:       opts.Bus,
		templates: opts.Templates,
		logger:    opts.Logger,
		currency:  opts.Currency,
		publicURL: opts.PublicURL,
	}
}

func (j *PaymentSweepJob) Name() string { return "payment-sweep" }

func (j *PaymentSweepJob) Run(ctx context.Context) error {
	paid, err := j.store.ListPaidEvents(ctx)
	if err != nil {
		return fmt.Errorf("list fee-bearing events: %w", err)
	}
	for _, e := range paid {
		if err := j.sweepEvent(ctx, e); err != nil {
			j.logger.Warn("payment sweep failed for event", "event", e.ID, "error", err)
		}
	}
	return nil
}

func (j *PaymentSweepJob) sweepEvent(ctx context.Context, e *model.Event) error {
	unpaid, err := j.store.ListGoingUnpaid(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("list unpaid: %w", err)
	}
	for _, u := range unpaid {
		if err := j.chase(ctx, e, u); err != nil {
			j.logger.Warn("payment chase failed", "event", e.ID, "user", u.DiscordUserID, "error", err)
		}
	}
	return nil
}

func (j *PaymentSweepJob) chase(ctx context.Context, e *model.Event, u *model.User) error {
	key, err := idgen.IdempotencyKey()
	if err != nil {
		return fmt.Errorf("generate idempotency key: %w", err)
	}
	sess, err := j.checkout.CreateSession(ctx, payments.SessionRequest{
		EventID:        e.ID,
		EventName:      e.Name,
		DiscordUserID:  u.DiscordUserID,
		Amount:         e.Price,
		Currency:       j.currency,
		SuccessURL:     j.publicURL + "/success",
		CancelURL:      j.publicURL + "/cancel",
		IdempotencyKey: key,
	})
	if err != nil {
		return fmt.Errorf("create checkout session: %w", err)
	}

	// Record the session before delivery so the next sweep cannot mint a
	// second one for the same user.
	now := time.Now()
	if err := j.store.UpsertPaymentSession(ctx, &model.Payment{
		UserID:     u.ID,
		EventID:    e.ID,
		Status:     model.PaymentDMSent,
		Amount:     e.Price,
		SessionURL: sess.URL,
		SessionID:  sess.ID,
		DMSentAt:   &now,
	}); err != nil {
		return fmt.Errorf("record payment session: %w", err)
	}
	if err := j.bus.Publish(ctx, events.TopicPaymentSessionCreated, events.PaymentSessionCreated{
		EventID:       e.ID,
		DiscordUserID: u.DiscordUserID,
		SessionID:     sess.ID,
		Amount:        e.Price,
	}); err != nil {
		j.logger.Warn("event publish failed", "topic", events.TopicPaymentSessionCreated, "error", err)
	}

	name := u.DisplayName
	if name == "" {
		name = u.Username
	}
	text := config.Render(j.templates.PaymentChaseDM,
		"username", name,
		"event", e.Name,
		"url", sess.URL,
	)
	if err := j.gateway.SendDirectMessage(ctx, u.DiscordUserID, text); err != nil {
		j.logger.Warn("payment chase dm failed", "event", e.ID, "user", u.DiscordUserID, "error", err)
		return nil
	}
	j.logger.Info("payment link chased", "event", e.ID, "user", u.DiscordUserID, "session", sess.ID)
	return nil
}
