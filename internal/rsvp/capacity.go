package rsvp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/groblegark/rsvpd/internal/config"
	"github.com/groblegark/rsvpd/internal/events"
	"github.com/groblegark/rsvpd/internal/model"
)

// CheckCapacity compares the going count against the event's capacity and
// announces boundary crossings in the event thread.
//
// The capacity_notice_sent flag gives the announcement hysteresis: "reached"
// fires once when the count arrives at capacity and will not fire again until
// a spot has opened and the "opened" notice reset the flag. Counts moving
// strictly below or at a side of the boundary stay silent.
func (h *Handler) CheckCapacity(ctx context.Context, event *model.Event) error {
	if !event.Limited() {
		return nil
	}

	count, err := h.store.CountGoing(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("count going for event %d: %w", event.ID, err)
	}

	switch {
	case int64(count) >= event.MaxCapacity && !event.CapacityNoticeSent:
		text := config.Render(h.templates.CapacityReached,
			"event", event.Name,
			"capacity", strconv.FormatInt(event.MaxCapacity, 10),
		)
		if err := h.gateway.SendChannelMessage(ctx, event.ThreadID, text); err != nil {
			// Flag stays clear so the next transition retries the notice.
			return fmt.Errorf("announce capacity reached for event %d: %w", event.ID, err)
		}
		if err := h.store.SetCapacityNotice(ctx, event.ID, true); err != nil {
			return fmt.Errorf("set capacity notice for event %d: %w", event.ID, err)
		}
		event.CapacityNoticeSent = true
		h.publish(ctx, events.TopicCapacityReached, events.CapacityReached{
			EventID: event.ID,
			Count:   int64(count),
			Max:     event.MaxCapacity,
		})
		h.logger.Info("capacity reached", "event", event.ID, "count", count, "max", event.MaxCapacity)

	case int64(count) < event.MaxCapacity && event.CapacityNoticeSent:
		text := config.Render(h.templates.CapacityOpened, "event", event.Name)
		if err := h.gateway.SendChannelMessage(ctx, event.ThreadID, text); err != nil {
			return fmt.Errorf("announce capacity opened for event %d: %w", event.ID, err)
		}
		if err := h.store.SetCapacityNotice(ctx, event.ID, false); err != nil {
			return fmt.Errorf("clear capacity notice for event %d: %w", event.ID, err)
		}
		event.CapacityNoticeSent = false
		h.publish(ctx, events.TopicCapacityOpened, events.CapacityOpened{
			EventID: event.ID,
			Count:   int64(count),
			Max:     event.MaxCapacity,
		})
		h.logger.Info("capacity opened", "event", event.ID, "count", count, "max", event.MaxCapacity)
	}
	return nil
}
