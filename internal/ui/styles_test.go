package ui

import (
	"strings"
	"testing"
)

func TestRenderStatuses(t *testing.T) {
	noColor = false
	defer func() { noColor = false }()

	if got := RenderRSVPStatus("going"); !strings.Contains(got, "going") || !strings.Contains(got, "\x1b[") {
		t.Errorf("RenderRSVPStatus(going) = %q, want colored", got)
	}
	if got := RenderPaymentStatus("paid"); !strings.Contains(got, "\x1b[") {
		t.Errorf("RenderPaymentStatus(paid) = %q, want colored", got)
	}
	// Unknown values pass through unstyled.
	if got := RenderRSVPStatus("unknown"); got != "unknown" {
		t.Errorf("RenderRSVPStatus(unknown) = %q", got)
	}
}

func TestForceNoColor(t *testing.T) {
	noColor = false
	ForceNoColor()
	defer func() { noColor = false }()

	if got := RenderRSVPStatus("going"); got != "going" {
		t.Errorf("with color disabled got %q, want plain text", got)
	}
	if got := RenderAccent("x"); got != "x" {
		t.Errorf("RenderAccent with color disabled = %q", got)
	}
}
