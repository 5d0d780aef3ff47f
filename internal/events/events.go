package events

import (
	"context"
	"time"
)

// Event topic constants
const (
	TopicRSVPGoing     = "rsvpd.rsvp.going"
	TopicRSVPCancelled = "rsvpd.rsvp.cancelled"

	TopicPaymentSessionCreated = "rsvpd.payment.session_created"
	TopicPaymentPaid           = "rsvpd.payment.paid"
	TopicPaymentCancelled      = "rsvpd.payment.cancelled"

	// Capacity transitions (hysteresis: reached fires once until opened).
	TopicCapacityReached = "rsvpd.capacity.reached"
	TopicCapacityOpened  = "rsvpd.capacity.opened"

	// Deadline and reminder announcements.
	TopicEventNotified = "rsvpd.event.notified"

	// Guild membership changes.
	TopicMemberJoined = "rsvpd.member.joined"
	TopicMemberLeft   = "rsvpd.member.left"
)

// Event types

type RSVPGoing struct {
	EventID       int64  `json:"event_id"`
	DiscordUserID string `json:"discord_user_id"`
	Source        string `json:"source"` // reaction, payment, reconciler
}

type RSVPCancelled struct {
	EventID       int64  `json:"event_id"`
	DiscordUserID string `json:"discord_user_id"`
}

type PaymentSessionCreated struct {
	EventID       int64  `json:"event_id"`
	DiscordUserID string `json:"discord_user_id"`
	SessionID     string `json:"session_id"`
	Amount        int64  `json:"amount"`
}

type PaymentPaid struct {
	EventID       int64  `json:"event_id"`
	DiscordUserID string `json:"discord_user_id"`
	SessionID     string `json:"session_id"`
}

type PaymentCancelled struct {
	EventID       int64  `json:"event_id"`
	DiscordUserID string `json:"discord_user_id"`
	SessionID     string `json:"session_id,omitempty"`
}

type CapacityReached struct {
	EventID int64 `json:"event_id"`
	Count   int64 `json:"count"`
	Max     int64 `json:"max"`
}

type CapacityOpened struct {
	EventID int64 `json:"event_id"`
	Count   int64 `json:"count"`
	Max     int64 `json:"max"`
}

type EventNotified struct {
	EventID   int64     `json:"event_id"`
	Threshold string    `json:"threshold"` // deadline, remind1, remind2
	At        time.Time `json:"at"`
}

type MemberJoined struct {
	DiscordUserID string `json:"discord_user_id"`
	Username      string `json:"username"`
}

type MemberLeft struct {
	DiscordUserID string `json:"discord_user_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
