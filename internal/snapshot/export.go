// Package snapshot exports the full RSVP dataset as JSONL for offline
// analysis and backup.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/groblegark/rsvpd/internal/model"
)

// Store is the persistence surface the exporter needs.
type Store interface {
	ListEvents(ctx context.Context) ([]*model.Event, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListRSVPs(ctx context.Context) ([]*model.RSVP, error)
	ListPayments(ctx context.Context) ([]*model.Payment, error)
}

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version      string    `json:"version"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	EventCount   int       `json:"event_count"`
	UserCount    int       `json:"user_count"`
	RSVPCount    int       `json:"rsvp_count"`
	PaymentCount int       `json:"payment_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes all events, users, RSVPs, and payments from the store
// as JSONL to w. List order follows the store's id ordering.
func ExportJSONL(ctx context.Context, s Store, w io.Writer) error {
	evts, err := s.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	users, err := s.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	rsvps, err := s.ListRSVPs(ctx)
	if err != nil {
		return fmt.Errorf("list rsvps: %w", err)
	}
	pays, err := s.ListPayments(ctx)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:      "1",
		Type:         "header",
		Timestamp:    time.Now().UTC(),
		EventCount:   len(evts),
		UserCount:    len(users),
		RSVPCount:    len(rsvps),
		PaymentCount: len(pays),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, e := range evts {
		if err := enc.Encode(record{Type: "event", Data: e}); err != nil {
			return fmt.Errorf("encode event %d: %w", e.ID, err)
		}
	}
	for _, u := range users {
		if err := enc.Encode(record{Type: "user", Data: u}); err != nil {
			return fmt.Errorf("encode user %d: %w", u.ID, err)
		}
	}
	for _, r := range rsvps {
		if err := enc.Encode(record{Type: "rsvp", Data: r}); err != nil {
			return fmt.Errorf("encode rsvp %d: %w", r.ID, err)
		}
	}
	for _, p := range pays {
		if err := enc.Encode(record{Type: "payment", Data: p}); err != nil {
			return fmt.Errorf("encode payment %d: %w", p.ID, err)
		}
	}
	return nil
}
