package rsvp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/groblegark/rsvpd/internal/config"
	"github.com/groblegark/rsvpd/internal/events"
	"github.com/groblegark/rsvpd/internal/gateway"
	"github.com/groblegark/rsvpd/internal/idgen"
	"github.com/groblegark/rsvpd/internal/model"
	"github.com/groblegark/rsvpd/internal/payments"
	"github.com/groblegark/rsvpd/internal/store"
)

// Handler reacts to gateway notifications and drives the RSVP and payment
// state machines.
type Handler struct {
	store     Store
	gateway   gateway.Session
	checkout  payments.Checkout
	bus       events.Publisher
	templates *config.Templates
	logger    *slog.Logger
	currency  string
	publicURL string
}

// HandlerOptions collects the Handler dependencies.
type HandlerOptions struct {
	Store     Store
	Gateway   gateway.Session
	Checkout  payments.Checkout
	Bus       events.Publisher
	Templates *config.Templates
	Logger    *slog.Logger
	Currency  string
	PublicURL string
}

func NewHandler(opts HandlerOptions) *Handler {
	return &Handler{
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

// HandleReactionAdd processes a reaction-add notification: upserts the user
// and their going RSVP, delivers a payment link when the event charges a fee,
// and re-evaluates capacity.
func (h *Handler) HandleReactionAdd(ctx context.Context, r gateway.Reaction) error {
	event, err := h.store.GetEventByMessageID(ctx, r.MessageID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup event for message %s: %w", r.MessageID, err)
	}
	if !gateway.EmojiEqual(r.Emoji, event.ReactionEmoji) {
		return nil
	}

	user, err := h.store.UpsertUser(ctx, &model.User{
		DiscordUserID: r.UserID,
		Username:      r.Username,
		DisplayName:   r.DisplayName,
	})
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", r.UserID, err)
	}

	if err := h.store.UpsertRSVPGoing(ctx, user.ID, event.ID, model.SourceReaction); err != nil {
		return fmt.Errorf("upsert rsvp for user %d event %d: %w", user.ID, event.ID, err)
	}
	h.publish(ctx, events.TopicRSVPGoing, events.RSVPGoing{
		EventID:       event.ID,
		DiscordUserID: user.DiscordUserID,
		Source:        model.SourceReaction.String(),
	})
	h.logger.Info("rsvp going", "event", event.ID, "user", user.DiscordUserID)

	if err := h.maybeSendPaymentLink(ctx, event, user); err != nil {
		return err
	}
	return h.CheckCapacity(ctx, event)
}

// HandleReactionRemove processes a reaction-remove notification: cancels the
// RSVP and any open payment session, then re-evaluates capacity. Users with
// no row are ignored.
func (h *Handler) HandleReactionRemove(ctx context.Context, r gateway.Reaction) error {
	event, err := h.store.GetEventByMessageID(ctx, r.MessageID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup event for message %s: %w", r.MessageID, err)
	}
	if !gateway.EmojiEqual(r.Emoji, event.ReactionEmoji) {
		return nil
	}

	user, err := h.store.GetUserByDiscordID(ctx, r.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup user %s: %w", r.UserID, err)
	}

	if err := h.store.CancelRSVP(ctx, user.ID, event.ID); err != nil {
		return fmt.Errorf("cancel rsvp for user %d event %d: %w", user.ID, event.ID, err)
	}
	if err := h.store.CancelPayment(ctx, user.ID, event.ID); err != nil {
		return fmt.Errorf("cancel payment for user %d event %d: %w", user.ID, event.ID, err)
	}
	h.publish(ctx, events.TopicRSVPCancelled, events.RSVPCancelled{
		EventID:       event.ID,
		DiscordUserID: user.DiscordUserID,
	})
	h.logger.Info("rsvp cancelled", "event", event.ID, "user", user.DiscordUserID)

	return h.CheckCapacity(ctx, event)
}

// HandleMemberJoin upserts the member's user row. Rejoining clears a
// previous departed tag at the store layer.
func (h *Handler) HandleMemberJoin(ctx context.Context, m gateway.Member) error {
	if _, err := h.store.UpsertUser(ctx, &model.User{
		DiscordUserID: m.UserID,
		Username:      m.Username,
		DisplayName:   m.DisplayName,
	}); err != nil {
		return fmt.Errorf("upsert joining member %s: %w", m.UserID, err)
	}
	h.publish(ctx, events.TopicMemberJoined, events.MemberJoined{
		DiscordUserID: m.UserID,
		Username:      m.Username,
	})
	return nil
}

// HandleMemberLeave tags the user's row as departed. History is kept.
func (h *Handler) HandleMemberLeave(ctx context.Context, discordUserID string) error {
	if err := h.store.MarkUserLeft(ctx, discordUserID); err != nil {
		return fmt.Errorf("mark user %s left: %w", discordUserID, err)
	}
	h.publish(ctx, events.TopicMemberLeft, events.MemberLeft{DiscordUserID: discordUserID})
	return nil
}

// SyncMembers upserts a user row for every current guild member. Individual
// failures are logged and skipped.
func (h *Handler) SyncMembers(ctx context.Context) error {
	members, err := h.gateway.GuildMembers(ctx)
	if err != nil {
		return fmt.Errorf("list guild members: %w", err)
	}
	synced := 0
	for _, m := range members {
		if _, err := h.store.UpsertUser(ctx, &model.User{
			DiscordUserID: m.UserID,
			Username:      m.Username,
			DisplayName:   m.DisplayName,
		}); err != nil {
			h.logger.Warn("member sync upsert failed", "user", m.UserID, "error", err)
			continue
		}
		synced++
	}
	h.logger.Info("member sync complete", "members", len(members), "synced", synced)
	return nil
}

// maybeSendPaymentLink creates a checkout session and DMs its URL, unless the
// event is free or the user already holds an open session. Free events only
// enter the payment path when the zero-fee test setting is on.
func (h *Handler) maybeSendPaymentLink(ctx context.Context, event *model.Event, user *model.User) error {
	if event.Price == 0 && !h.zeroFeeTestEnabled(ctx) {
		return nil
	}

	existing, err := h.store.GetPayment(ctx, user.ID, event.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("lookup payment for user %d event %d: %w", user.ID, event.ID, err)
	}
	if existing != nil && existing.Status.Open() {
		return nil
	}

	key, err := idgen.IdempotencyKey()
	if err != nil {
		return fmt.Errorf("generate idempotency key: %w", err)
	}
	sess, err := h.checkout.CreateSession(ctx, payments.SessionRequest{
		EventID:        event.ID,
		EventName:      event.Name,
		DiscordUserID:  user.DiscordUserID,
		Amount:         event.Price,
		Currency:       h.currency,
		SuccessURL:     h.publicURL + "/success",
		CancelURL:      h.publicURL + "/cancel",
		IdempotencyKey: key,
	})
	if err != nil {
		return fmt.Errorf("create checkout session for user %d event %d: %w", user.ID, event.ID, err)
	}
	h.publish(ctx, events.TopicPaymentSessionCreated, events.PaymentSessionCreated{
		EventID:       event.ID,
		DiscordUserID: user.DiscordUserID,
		SessionID:     sess.ID,
		Amount:        event.Price,
	})

	// The row is written before the DM goes out: once the session exists it
	// must be on record, or a re-reaction would mint another one.
	now := time.Now()
	if err := h.store.UpsertPaymentSession(ctx, &model.Payment{
		UserID:     user.ID,
		EventID:    event.ID,
		Status:     model.PaymentDMSent,
		Amount:     event.Price,
		SessionURL: sess.URL,
		SessionID:  sess.ID,
		DMSentAt:   &now,
	}); err != nil {
		return fmt.Errorf("record payment session for user %d event %d: %w", user.ID, event.ID, err)
	}

	text := config.Render(h.templates.PaymentDM,
		"username", displayName(user),
		"event", event.Name,
		"url", sess.URL,
	)
	if err := h.gateway.SendDirectMessage(ctx, user.DiscordUserID, text); err != nil {
		h.logger.Warn("payment dm failed", "user", user.DiscordUserID, "event", event.ID, "error", err)
		return nil
	}
	h.logger.Info("payment link sent", "event", event.ID, "user", user.DiscordUserID, "session", sess.ID)
	return nil
}

func (h *Handler) zeroFeeTestEnabled(ctx context.Context) bool {
	s, err := h.store.GetSetting(ctx, model.SettingZeroFeeTest)
	if errors.Is(err, store.ErrNotFound) {
		return false
	}
	if err != nil {
		h.logger.Warn("setting lookup failed", "key", model.SettingZeroFeeTest, "error", err)
		return false
	}
	return s.Bool()
}

// publish emits a bus event; publish failures are logged, never propagated.
func (h *Handler) publish(ctx context.Context, topic string, event any) {
	if err := h.bus.Publish(ctx, topic, event); err != nil {
		h.logger.Warn("event publish failed", "topic", topic, "error", err)
	}
}

func displayName(u *model.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
