package store

import (
	"context"
	"errors"
	"time"

	"github.com/groblegark/rsvpd/internal/model"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for rsvpd.
//
// All participation writes are upserts on the (user, event) unique keys;
// concurrent or replayed gateway events converge on a single row without
// any in-process locking.
type Store interface {
	// Events
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	GetEventByMessageID(ctx context.Context, messageID string) (*model.Event, error)
	ListEvents(ctx context.Context) ([]*model.Event, error)
	ListBoundEvents(ctx context.Context) ([]*model.Event, error)
	ListPaidEvents(ctx context.Context) ([]*model.Event, error)
	// ListDueEvents returns events with at least one passed, un-notified
	// threshold. now must already be the wall-clock reading in the operating
	// timezone (see timeutil.WallClock).
	ListDueEvents(ctx context.Context, now time.Time) ([]*model.Event, error)
	SetCapacityNotice(ctx context.Context, eventID int64, sent bool) error
	MarkThresholdSent(ctx context.Context, eventID int64, threshold model.Threshold) error

	// Users
	UpsertUser(ctx context.Context, u *model.User) (*model.User, error)
	GetUserByDiscordID(ctx context.Context, discordUserID string) (*model.User, error)
	MarkUserLeft(ctx context.Context, discordUserID string) error
	ListUsers(ctx context.Context) ([]*model.User, error)
	// ListUserDiscordIDs returns the discord ids of all non-departed users.
	ListUserDiscordIDs(ctx context.Context) ([]string, error)

	// RSVPs
	UpsertRSVPGoing(ctx context.Context, userID, eventID int64, source model.RSVPSource) error
	CancelRSVP(ctx context.Context, userID, eventID int64) error
	CountGoing(ctx context.Context, eventID int64) (int, error)
	ListGoingDiscordIDs(ctx context.Context, eventID int64) ([]string, error)
	ListAttendees(ctx context.Context, eventID int64) ([]*model.Attendee, error)
	ListRSVPs(ctx context.Context) ([]*model.RSVP, error)

	// Payments
	GetPayment(ctx context.Context, userID, eventID int64) (*model.Payment, error)
	UpsertPaymentSession(ctx context.Context, p *model.Payment) error
	CancelPayment(ctx context.Context, userID, eventID int64) error
	// MarkPaymentPaid upserts the payment row to paid, creating it when the
	// session was never recorded, and reports whether a row actually
	// transitioned; a replayed webhook returns false.
	MarkPaymentPaid(ctx context.Context, userID, eventID int64, sessionID string, amount int64) (bool, error)
	// ListGoingUnpaid returns users with a going RSVP for the event and no
	// open payment row (none, or cancelled).
	ListGoingUnpaid(ctx context.Context, eventID int64) ([]*model.User, error)
	ListPayments(ctx context.Context) ([]*model.Payment, error)

	// Settings
	GetSetting(ctx context.Context, key string) (*model.Setting, error)
	SetSetting(ctx context.Context, s *model.Setting) error

	// Lifecycle
	Close() error
}
