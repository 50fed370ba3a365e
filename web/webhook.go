/* webhook.go
 * Contains the HTTP handlers: the messaging webhook that feeds inbound texts to the command router and
 * the liveness endpoint
 */

package web

import (
	"encoding/xml"
	"net/http"
	"strings"

	apperrors "poolmanager-bot/api/errors"
)

const (
	HealthText      = "Bot de WhatsApp profesional activo."
	maxWebhookBytes = 64 << 10
)

// twimlResponse is the XML body Twilio expects back from a messaging webhook
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// Routes registers the handlers on a new mux
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.WebhookHandler)
	mux.HandleFunc("/", s.HealthHandler)
	return mux
}

// WebhookHandler HTTP endpoint that receives an inbound message as form fields Body and From
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: The router's reply is written back as TwiML. A missing sender is a 400; a store
// failure is a 500 that still carries the router's apology; every other outcome is a 200 with the reply
func (s *Server) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBytes)
	if err := r.ParseForm(); err != nil {
		s.log.Warn("failed to parse webhook form", "error", err)
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	from := strings.TrimSpace(r.FormValue("From"))
	if from == "" {
		http.Error(w, "missing From", http.StatusBadRequest)
		return
	}

	reply, err := s.api.Handle(r.Context(), r.FormValue("Body"), from)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("webhook command failed", "from", from, "error", err)
		if reply == "" {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		// the request failed but the sender still gets the router's apology
		writeTwiML(w, http.StatusInternalServerError, reply)
		return
	}

	writeTwiML(w, http.StatusOK, reply)
}

// HealthHandler answers liveness probes on the root path
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(HealthText))
}

func writeTwiML(w http.ResponseWriter, status int, reply string) {
	body, err := xml.Marshal(twimlResponse{Message: reply})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(body)
}
