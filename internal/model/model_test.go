package model

import (
	"testing"
	"time"
)

func TestStatusValidity(t *testing.T) {
	for _, s := range []RSVPStatus{RSVPGoing, RSVPCancelled} {
		if !s.IsValid() {
			t.Errorf("RSVPStatus(%q).IsValid() = false", s)
		}
	}
	if RSVPStatus("maybe").IsValid() {
		t.Error("RSVPStatus(\"maybe\").IsValid() = true")
	}

	for _, s := range []RSVPSource{SourceReaction, SourcePayment, SourceReconciler} {
		if !s.IsValid() {
			t.Errorf("RSVPSource(%q).IsValid() = false", s)
		}
	}
	if RSVPSource("webhook").IsValid() {
		t.Error("RSVPSource(\"webhook\").IsValid() = true")
	}

	for _, s := range []PaymentStatus{PaymentDMSent, PaymentPaid, PaymentCancelled} {
		if !s.IsValid() {
			t.Errorf("PaymentStatus(%q).IsValid() = false", s)
		}
	}
	if PaymentStatus("refunded").IsValid() {
		t.Error("PaymentStatus(\"refunded\").IsValid() = true")
	}
}

func TestPaymentStatusOpen(t *testing.T) {
	for _, tc := range []struct {
		status PaymentStatus
		want   bool
	}{
		{PaymentDMSent, true},
		{PaymentPaid, true},
		{PaymentCancelled, false},
		{PaymentStatus(""), false},
	} {
		if got := tc.status.Open(); got != tc.want {
			t.Errorf("PaymentStatus(%q).Open() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestEventBoundAndLimited(t *testing.T) {
	e := &Event{}
	if e.Bound() {
		t.Error("empty event reported bound")
	}
	if e.Limited() {
		t.Error("empty event reported limited")
	}
	e.MessageID = "123"
	if e.Bound() {
		t.Error("event without emoji reported bound")
	}
	e.ReactionEmoji = "👍"
	if !e.Bound() {
		t.Error("bound event reported unbound")
	}
	e.MaxCapacity = 5
	if !e.Limited() {
		t.Error("capacity-limited event reported unlimited")
	}
}

func TestEventThresholdAccessors(t *testing.T) {
	deadline := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	remind := time.Date(2025, 5, 28, 20, 0, 0, 0, time.UTC)
	e := &Event{
		DeadlineAt:         &deadline,
		Remind1At:          &remind,
		DeadlineNoticeSent: true,
	}

	if got := e.At(ThresholdDeadline); got == nil || !got.Equal(deadline) {
		t.Errorf("At(deadline) = %v, want %v", got, deadline)
	}
	if got := e.At(ThresholdRemind1); got == nil || !got.Equal(remind) {
		t.Errorf("At(remind1) = %v, want %v", got, remind)
	}
	if got := e.At(ThresholdRemind2); got != nil {
		t.Errorf("At(remind2) = %v, want nil", got)
	}
	if !e.Sent(ThresholdDeadline) {
		t.Error("Sent(deadline) = false, want true")
	}
	if e.Sent(ThresholdRemind1) {
		t.Error("Sent(remind1) = true, want false")
	}
	if !ThresholdDeadline.IsValid() || Threshold("soon").IsValid() {
		t.Error("threshold validity check failed")
	}
}

func TestUserHelpers(t *testing.T) {
	u := &User{DiscordUserID: "42"}
	if u.Departed() {
		t.Error("active user reported departed")
	}
	u.Role = RoleLeft
	if !u.Departed() {
		t.Error("departed user not reported")
	}
	if got := u.Mention(); got != "<@42>" {
		t.Errorf("Mention() = %q, want %q", got, "<@42>")
	}
}
