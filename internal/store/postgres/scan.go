package postgres

import (
	"database/sql"
	"time"

	"github.com/groblegark/rsvpd/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanEvent scans a single row into a model.Event.
// The row must contain columns in the order defined by eventColumns.
func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var (
		maxCapacity   sql.NullInt64
		reactionEmoji sql.NullString
		threadID      sql.NullString
		messageID     sql.NullString
		deadlineAt    sql.NullTime
		remind1At     sql.NullTime
		remind2At     sql.NullTime
	)

	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Price,
		&maxCapacity,
		&reactionEmoji,
		&threadID,
		&messageID,
		&deadlineAt,
		&remind1At,
		&remind2At,
		&e.DeadlineNoticeSent,
		&e.Remind1Sent,
		&e.Remind2Sent,
		&e.CapacityNoticeSent,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.MaxCapacity = maxCapacity.Int64
	e.ReactionEmoji = reactionEmoji.String
	e.ThreadID = threadID.String
	e.MessageID = messageID.String
	e.DeadlineAt = timePtr(deadlineAt)
	e.Remind1At = timePtr(remind1At)
	e.Remind2At = timePtr(remind2At)

	return &e, nil
}

// scanUser scans a single row into a model.User.
// The row must contain columns in the order defined by userColumns.
func scanUser(row scannable) (*model.User, error) {
	var u model.User
	var (
		displayName sql.NullString
		role        sql.NullString
	)

	err := row.Scan(
		&u.ID,
		&u.DiscordUserID,
		&u.Username,
		&displayName,
		&role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.DisplayName = displayName.String
	u.Role = role.String
	return &u, nil
}

// scanRSVP scans a single row into a model.RSVP.
func scanRSVP(row scannable) (*model.RSVP, error) {
	var r model.RSVP
	var cancelledAt sql.NullTime

	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.EventID,
		&r.Status,
		&r.Source,
		&r.RSVPAt,
		&cancelledAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.CancelledAt = timePtr(cancelledAt)
	return &r, nil
}

// scanPayment scans a single row into a model.Payment.
// The row must contain columns in the order defined by paymentColumns.
func scanPayment(row scannable) (*model.Payment, error) {
	var p model.Payment
	var (
		sessionURL  sql.NullString
		sessionID   sql.NullString
		dmSentAt    sql.NullTime
		paidAt      sql.NullTime
		cancelledAt sql.NullTime
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.EventID,
		&p.Status,
		&p.Amount,
		&sessionURL,
		&sessionID,
		&dmSentAt,
		&paidAt,
		&cancelledAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.SessionURL = sessionURL.String
	p.SessionID = sessionID.String
	p.DMSentAt = timePtr(dmSentAt)
	p.PaidAt = timePtr(paidAt)
	p.CancelledAt = timePtr(cancelledAt)
	return &p, nil
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
