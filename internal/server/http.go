package server

import (
	"encoding/json"
	"net/http"
)

// maxWebhookBody caps the webhook payload size.
const maxWebhookBody = 1 << 20

// NewHTTPHandler returns an http.Handler with all routes registered.
func (s *Server) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /stripe/webhook", s.handleStripeWebhook)
	mux.HandleFunc("GET /success", s.handleSuccessPage)
	mux.HandleFunc("GET /cancel", s.handleCancelPage)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return mux
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSuccessPage handles the post-checkout redirect.
func (s *Server) handleSuccessPage(w http.ResponseWriter, _ *http.Request) {
	writeHTML(w, `<html><body>
<h1>Payment complete</h1>
<p>Thank you! Your payment has been received. You can close this page and return to Discord.</p>
</body></html>`)
}

// handleCancelPage handles the abandoned-checkout redirect.
func (s *Server) handleCancelPage(w http.ResponseWriter, _ *http.Request) {
	writeHTML(w, `<html><body>
<h1>Payment cancelled</h1>
<p>Your payment was not completed. React to the event message again to get a new payment link.</p>
</body></html>`)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
