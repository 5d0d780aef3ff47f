// Package rsvp implements the reaction-driven participation state machine.
//
// Reactions on an event's bound message are the user-facing RSVP surface.
// Every transition is an upsert keyed on (user, event), so duplicate or
// replayed gateway notifications converge instead of double-applying.
package rsvp

import (
	"context"

	"github.com/groblegark/rsvpd/internal/model"
)

// Store is the persistence surface the handler needs.
type Store interface {
	GetEventByMessageID(ctx context.Context, messageID string) (*model.Event, error)
	SetCapacityNotice(ctx context.Context, eventID int64, sent bool) error

	UpsertUser(ctx context.Context, u *model.User) (*model.User, error)
	GetUserByDiscordID(ctx context.Context, discordUserID string) (*model.User, error)
	MarkUserLeft(ctx context.Context, discordUserID string) error

	UpsertRSVPGoing(ctx context.Context, userID, eventID int64, source model.RSVPSource) error
	CancelRSVP(ctx context.Context, userID, eventID int64) error
	CountGoing(ctx context.Context, eventID int64) (int, error)

	GetPayment(ctx context.Context, userID, eventID int64) (*model.Payment, error)
	UpsertPaymentSession(ctx context.Context, p *model.Payment) error
	CancelPayment(ctx context.Context, userID, eventID int64) error

	GetSetting(ctx context.Context, key string) (*model.Setting, error)
}
