package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/groblegark/rsvpd/internal/config"
	"github.com/groblegark/rsvpd/internal/events"
	"github.com/groblegark/rsvpd/internal/gateway"
	"github.com/groblegark/rsvpd/internal/model"
	"github.com/groblegark/rsvpd/internal/timeutil"
)

// DeadlineStore is the persistence surface the deadline job needs.
type DeadlineStore interface {
	ListDueEvents(ctx context.Context, now time.Time) ([]*model.Event, error)
	MarkThresholdSent(ctx context.Context, eventID int64, threshold model.Threshold) error
	ListUserDiscordIDs(ctx context.Context) ([]string, error)
}

// DeadlineJob announces passed deadline and reminder thresholds. Each
// threshold is announced exactly once: the sent flag is stamped only after a
// successful send, so a delivery failure retries on the next run.
//
// Threshold timestamps are naive wall-clock values in the operating
// timezone; the current time is converted before comparison.
type DeadlineJob struct {
	store     DeadlineStore
	gateway   gateway.Session
	bus       events.Publisher
	templates *config.Templates
	location  *time.Location
	logger    *slog.Logger

	now func() time.Time
}

func NewDeadlineJob(s DeadlineStore, g gateway.Session, bus events.Publisher, t *config.Templates, loc *time.Location, logger *slog.Logger) *DeadlineJob {
	return &DeadlineJob{
		store:     s,
		gateway:   g,
		bus:       bus,
		templates: t,
		location:  loc,
		logger:    logger,
		now:       time.Now,
	}
}

func (j *DeadlineJob) Name() string { return "deadlines" }

func (j *DeadlineJob) Run(ctx context.Context) error {
	now := timeutil.WallClock(j.now(), j.location)
	due, err := j.store.ListDueEvents(ctx, now)
	if err != nil {
		return fmt.Errorf("list due events: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	mentions, err := j.mentionLine(ctx)
	if err != nil {
		return err
	}

	for _, e := range due {
		for _, th := range []model.Threshold{model.ThresholdDeadline, model.ThresholdRemind1, model.ThresholdRemind2} {
			at := e.At(th)
			if at == nil || !at.Before(now) || e.Sent(th) {
				continue
			}
			if err := j.announce(ctx, e, th, mentions); err != nil {
				j.logger.Warn("threshold announcement failed", "event", e.ID, "threshold", th, "error", err)
			}
		}
	}
	return nil
}

func (j *DeadlineJob) announce(ctx context.Context, e *model.Event, th model.Threshold, mentions string) error {
	text := config.Render(j.templates.ForThreshold(th.String()),
		"event", e.Name,
		"mentions", mentions,
	)
	if err := j.gateway.SendChannelMessage(ctx, e.ThreadID, text); err != nil {
		return fmt.Errorf("send announcement: %w", err)
	}
	if err := j.store.MarkThresholdSent(ctx, e.ID, th); err != nil {
		return fmt.Errorf("mark %s sent: %w", th, err)
	}
	if err := j.bus.Publish(ctx, events.TopicEventNotified, events.EventNotified{
		EventID:   e.ID,
		Threshold: th.String(),
		At:        j.now(),
	}); err != nil {
		j.logger.Warn("event publish failed", "topic", events.TopicEventNotified, "error", err)
	}
	j.logger.Info("threshold announced", "event", e.ID, "threshold", th)
	return nil
}

func (j *DeadlineJob) mentionLine(ctx context.Context) (string, error) {
	ids, err := j.store.ListUserDiscordIDs(ctx)
	if err != nil {
		return "", fmt.Errorf("list user ids: %w", err)
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "<@" + id + ">"
	}
	return strings.Join(parts, " "), nil
}
