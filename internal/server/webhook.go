package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/groblegark/rsvpd/internal/config"
	"github.com/groblegark/rsvpd/internal/events"
	"github.com/groblegark/rsvpd/internal/model"
	"github.com/groblegark/rsvpd/internal/payments"
	"github.com/groblegark/rsvpd/internal/store"
)

// handleStripeWebhook handles POST /stripe/webhook.
//
// Bad signatures are rejected before any state is touched. Notifications
// with missing or unresolvable metadata are acknowledged with 200 so the
// provider stops retrying; only store failures return 500 and invite a
// retry. Replayed completions are acknowledged without a second confirmation
// DM: the paid transition happens at most once.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	evt, err := s.verifier.Verify(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		s.logger.Warn("webhook rejected", "error", err)
		writeError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	switch evt.Type {
	case payments.EventCheckoutCompleted:
		err = s.handleCheckoutCompleted(r.Context(), evt)
	case payments.EventCheckoutExpired:
		err = s.handleCheckoutExpired(r.Context(), evt)
	default:
		s.logger.Debug("webhook ignored", "type", evt.Type)
	}
	if err != nil {
		s.logger.Error("webhook processing failed", "type", evt.Type, "session", evt.SessionID, "err", err)
		writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (s *Server) handleCheckoutCompleted(ctx context.Context, evt *payments.WebhookEvent) error {
	user, event, ok, err := s.resolve(ctx, evt)
	if err != nil || !ok {
		return err
	}

	// The paid session is an authoritative RSVP even if the reaction row
	// was never written.
	if err := s.store.UpsertRSVPGoing(ctx, user.ID, event.ID, model.SourcePayment); err != nil {
		return fmt.Errorf("upsert rsvp for user %d event %d: %w", user.ID, event.ID, err)
	}

	transitioned, err := s.store.MarkPaymentPaid(ctx, user.ID, event.ID, evt.SessionID, event.Price)
	if err != nil {
		return fmt.Errorf("mark payment paid for user %d event %d: %w", user.ID, event.ID, err)
	}
	if !transitioned {
		s.logger.Info("webhook replay ignored", "session", evt.SessionID, "user", user.DiscordUserID)
		return nil
	}

	s.publish(ctx, events.TopicPaymentPaid, events.PaymentPaid{
		EventID:       event.ID,
		DiscordUserID: user.DiscordUserID,
		SessionID:     evt.SessionID,
	})

	text := config.Render(s.templates.PaymentConfirmDM, "event", event.Name)
	if err := s.gateway.SendDirectMessage(ctx, user.DiscordUserID, text); err != nil {
		s.logger.Warn("payment confirmation dm failed", "user", user.DiscordUserID, "event", event.ID, "error", err)
	}
	s.logger.Info("payment completed", "event", event.ID, "user", user.DiscordUserID, "session", evt.SessionID)
	return nil
}

func (s *Server) handleCheckoutExpired(ctx context.Context, evt *payments.WebhookEvent) error {
	user, event, ok, err := s.resolve(ctx, evt)
	if err != nil || !ok {
		return err
	}

	// Voiding the row lets the next reaction or sweep mint a fresh session.
	if err := s.store.CancelPayment(ctx, user.ID, event.ID); err != nil {
		return fmt.Errorf("cancel payment for user %d event %d: %w", user.ID, event.ID, err)
	}
	s.publish(ctx, events.TopicPaymentCancelled, events.PaymentCancelled{
		EventID:       event.ID,
		DiscordUserID: user.DiscordUserID,
		SessionID:     evt.SessionID,
	})
	s.logger.Info("payment session expired", "event", event.ID, "user", user.DiscordUserID, "session", evt.SessionID)
	return nil
}

// resolve maps webhook metadata to the user and event rows. A notification
// that cannot be resolved returns ok=false with no error: it is logged and
// acknowledged, never retried.
func (s *Server) resolve(ctx context.Context, evt *payments.WebhookEvent) (*model.User, *model.Event, bool, error) {
	discordID := evt.DiscordID()
	eventIDRaw := evt.EventID()
	if discordID == "" || eventIDRaw == "" {
		s.logger.Warn("webhook missing metadata", "session", evt.SessionID, "type", evt.Type)
		return nil, nil, false, nil
	}
	eventID, err := strconv.ParseInt(eventIDRaw, 10, 64)
	if err != nil {
		s.logger.Warn("webhook has malformed event id", "session", evt.SessionID, "event_id", eventIDRaw)
		return nil, nil, false, nil
	}

	user, err := s.store.GetUserByDiscordID(ctx, discordID)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("webhook references unknown user", "session", evt.SessionID, "user", discordID)
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("lookup user %s: %w", discordID, err)
	}

	event, err := s.store.GetEvent(ctx, eventID)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("webhook references unknown event", "session", evt.SessionID, "event", eventID)
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("lookup event %d: %w", eventID, err)
	}
	return user, event, true, nil
}
