package model

import "time"

// PaymentStatus is the state of a checkout session for a (user, event) pair.
//
// There is no "none" row: absence of a payment row means no session was ever
// created. A session is created at most once while the status is dm_sent or
// paid; re-reacting after a link was already delivered must not mint a
// second session.
type PaymentStatus string

const (
	PaymentDMSent    PaymentStatus = "dm_sent"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

// String returns the string representation of the status.
func (s PaymentStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentDMSent, PaymentPaid, PaymentCancelled:
		return true
	}
	return false
}

// Open reports whether a checkout session has been issued and not voided,
// i.e. whether creating another session would risk a double charge.
func (s PaymentStatus) Open() bool {
	return s == PaymentDMSent || s == PaymentPaid
}

// Payment is the persisted checkout-session record. Composite-unique on
// (user, event), never deleted, only status-transitioned.
type Payment struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id"`
	EventID     int64         `json:"event_id"`
	Status      PaymentStatus `json:"status"`
	Amount      int64         `json:"amount"`
	SessionURL  string        `json:"session_url,omitempty"`
	SessionID   string        `json:"session_id,omitempty"`
	DMSentAt    *time.Time    `json:"dm_sent_at,omitempty"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
