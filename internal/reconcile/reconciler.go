// Package reconcile periodically repairs drift between the reactions Discord
// holds and the RSVP rows the database holds.
//
// Reconciliation is one-directional: a reaction with no going row gets one,
// but a going row with no reaction is left alone. Cancellations only ever
// come from explicit removal notifications, so a missed removal is never
// manufactured here.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/groblegark/rsvpd/internal/events"
	"github.com/groblegark/rsvpd/internal/gateway"
	"github.com/groblegark/rsvpd/internal/model"
	"github.com/groblegark/rsvpd/internal/store"
)

// Store is the persistence surface the reconciler needs.
type Store interface {
	ListBoundEvents(ctx context.Context) ([]*model.Event, error)
	ListGoingDiscordIDs(ctx context.Context, eventID int64) ([]string, error)
	GetUserByDiscordID(ctx context.Context, discordUserID string) (*model.User, error)
	UpsertRSVPGoing(ctx context.Context, userID, eventID int64, source model.RSVPSource) error
}

// Reconciler scans bound events and backfills RSVP rows for reactions the
// gateway delivered while the service was down or a handler failed.
type Reconciler struct {
	store   Store
	gateway gateway.Session
	bus     events.Publisher
	logger  *slog.Logger
}

func New(s Store, g gateway.Session, bus events.Publisher, logger *slog.Logger) *Reconciler {
	return &Reconciler{store: s, gateway: g, bus: bus, logger: logger}
}

// Name identifies the reconciler to the job runner.
func (r *Reconciler) Name() string { return "reconcile" }

// Run reconciles every bound event. A failure on one event is logged and
// does not stop the others.
func (r *Reconciler) Run(ctx context.Context) error {
	bound, err := r.store.ListBoundEvents(ctx)
	if err != nil {
		return fmt.Errorf("list bound events: %w", err)
	}
	for _, e := range bound {
		if err := r.reconcileEvent(ctx, e); err != nil {
			r.logger.Warn("event reconciliation failed", "event", e.ID, "error", err)
		}
	}
	return nil
}

func (r *Reconciler) reconcileEvent(ctx context.Context, e *model.Event) error {
	reactors, err := r.gateway.ReactionUserIDs(ctx, e.ThreadID, e.MessageID, e.ReactionEmoji)
	if err != nil {
		return fmt.Errorf("list reactors: %w", err)
	}

	goingIDs, err := r.store.ListGoingDiscordIDs(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("list going: %w", err)
	}
	going := make(map[string]bool, len(goingIDs))
	for _, id := range goingIDs {
		going[id] = true
	}

	repaired := 0
	for _, discordID := range reactors {
		if going[discordID] {
			continue
		}
		user, err := r.store.GetUserByDiscordID(ctx, discordID)
		if errors.Is(err, store.ErrNotFound) {
			// Reactor was never registered as a member; leave them for the
			// live handler, which creates the user row itself.
			r.logger.Warn("reactor has no user row, skipping", "event", e.ID, "user", discordID)
			continue
		}
		if err != nil {
			return fmt.Errorf("lookup user %s: %w", discordID, err)
		}
		if err := r.store.UpsertRSVPGoing(ctx, user.ID, e.ID, model.SourceReconciler); err != nil {
			return fmt.Errorf("upsert rsvp for user %d: %w", user.ID, err)
		}
		if err := r.bus.Publish(ctx, events.TopicRSVPGoing, events.RSVPGoing{
			EventID:       e.ID,
			DiscordUserID: discordID,
			Source:        model.SourceReconciler.String(),
		}); err != nil {
			r.logger.Warn("event publish failed", "topic", events.TopicRSVPGoing, "error", err)
		}
		repaired++
	}
	if repaired > 0 {
		r.logger.Info("reconciled missing rsvps", "event", e.ID, "repaired", repaired)
	}
	return nil
}
