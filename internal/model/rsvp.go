package model

import "time"

// RSVPStatus is the participation state for a (user, event) pair.
type RSVPStatus string

const (
	RSVPGoing     RSVPStatus = "going"
	RSVPCancelled RSVPStatus = "cancelled"
)

// String returns the string representation of the status.
func (s RSVPStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s RSVPStatus) IsValid() bool {
	switch s {
	case RSVPGoing, RSVPCancelled:
		return true
	}
	return false
}

// RSVPSource records which component asserted the RSVP.
type RSVPSource string

const (
	SourceReaction   RSVPSource = "reaction"
	SourcePayment    RSVPSource = "payment"
	SourceReconciler RSVPSource = "reconciler"
)

// String returns the string representation of the source.
func (s RSVPSource) String() string {
	return string(s)
}

// IsValid checks whether the source is a known value.
func (s RSVPSource) IsValid() bool {
	switch s {
	case SourceReaction, SourcePayment, SourceReconciler:
		return true
	}
	return false
}

// RSVP is the persisted participation record. At most one row exists per
// (user, event); state changes are upserts on that unique key, never
// duplicate inserts, which is what makes reaction handling idempotent.
type RSVP struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	EventID     int64      `json:"event_id"`
	Status      RSVPStatus `json:"status"`
	Source      RSVPSource `json:"source"`
	RSVPAt      time.Time  `json:"rsvp_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Attendee is a read-model row joining an RSVP with its user, used by the
// attendance listing.
type Attendee struct {
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name,omitempty"`
	Status      RSVPStatus `json:"status"`
	RSVPAt      time.Time  `json:"rsvp_at"`
}
