package model

import "time"

// Event is a scheduled, optionally fee-bearing activity bound to a Discord
// message. Reactions with ReactionEmoji on that message signal participation.
type Event struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`        // minor currency units; 0 = free
	MaxCapacity int64  `json:"max_capacity"` // 0 = unlimited

	ReactionEmoji string `json:"reaction_emoji,omitempty"`
	ThreadID      string `json:"discord_thread_id,omitempty"`
	MessageID     string `json:"discord_message_id,omitempty"`

	DeadlineAt *time.Time `json:"deadline_at,omitempty"`
	Remind1At  *time.Time `json:"remind1_at,omitempty"`
	Remind2At  *time.Time `json:"remind2_at,omitempty"`

	// One-shot notification flags.
	DeadlineNoticeSent bool `json:"deadline_notice_sent"`
	Remind1Sent        bool `json:"remind1_sent"`
	Remind2Sent        bool `json:"remind2_sent"`
	CapacityNoticeSent bool `json:"capacity_notice_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bound reports whether the event is bound to a Discord message with a
// configured reaction emoji, i.e. whether it can accept reaction RSVPs.
func (e *Event) Bound() bool {
	return e.MessageID != "" && e.ReactionEmoji != ""
}

// Limited reports whether the event has a capacity limit.
func (e *Event) Limited() bool {
	return e.MaxCapacity > 0
}

// Threshold identifies one of the three time-based notification thresholds
// on an event. Each threshold fires at most once.
type Threshold string

const (
	ThresholdDeadline Threshold = "deadline"
	ThresholdRemind1  Threshold = "remind1"
	ThresholdRemind2  Threshold = "remind2"
)

// String returns the string representation of the threshold.
func (t Threshold) String() string {
	return string(t)
}

// IsValid checks whether the threshold is a known value.
func (t Threshold) IsValid() bool {
	switch t {
	case ThresholdDeadline, ThresholdRemind1, ThresholdRemind2:
		return true
	}
	return false
}

// At returns the configured timestamp for the threshold, or nil if unset.
func (e *Event) At(t Threshold) *time.Time {
	switch t {
	case ThresholdDeadline:
		return e.DeadlineAt
	case ThresholdRemind1:
		return e.Remind1At
	case ThresholdRemind2:
		return e.Remind2At
	}
	return nil
}

// Sent returns the sent-flag for the threshold.
func (e *Event) Sent(t Threshold) bool {
	switch t {
	case ThresholdDeadline:
		return e.DeadlineNoticeSent
	case ThresholdRemind1:
		return e.Remind1Sent
	case ThresholdRemind2:
		return e.Remind2Sent
	}
	return false
}
