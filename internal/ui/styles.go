// Package ui provides ANSI styling helpers for the CLI listings.
package ui

import "fmt"

// ANSI256 color codes.
const (
	colorGoing     = 114 // green
	colorCancelled = 245 // gray
	colorPaid      = 78  // bright green
	colorPending   = 179 // amber
	colorAccent    = 74  // blue
	colorMuted     = 245 // medium gray
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderRSVPStatus colors an RSVP status value.
func RenderRSVPStatus(status string) string {
	switch status {
	case "going":
		return render(colorGoing, status)
	case "cancelled":
		return render(colorCancelled, status)
	}
	return status
}

// RenderPaymentStatus colors a payment status value.
func RenderPaymentStatus(status string) string {
	switch status {
	case "paid":
		return render(colorPaid, status)
	case "dm_sent":
		return render(colorPending, status)
	case "cancelled":
		return render(colorCancelled, status)
	}
	return status
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return render(colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return render(colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
