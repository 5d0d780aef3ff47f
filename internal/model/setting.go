package model

import "time"

// SettingZeroFeeTest enables checkout-session creation for zero-fee events.
// Used to exercise the full payment path against Stripe test mode.
const SettingZeroFeeTest = "SEND_DM_FOR_ZERO_PAYMENT_TEST"

// Setting is a key-value record in app_settings. The admin surface that
// edits settings lives outside this service; rsvpd only reads the keys it
// understands.
type Setting struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Bool interprets the setting value as a boolean flag.
func (s *Setting) Bool() bool {
	return s.Value == "true"
}
