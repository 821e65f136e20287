package channels

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// WhatsAppHandler handles incoming WhatsApp Business webhook events.
type WhatsAppHandler struct {
	gateway     *Gateway
	verifyToken string
}

// NewWhatsAppHandler creates a new WhatsApp webhook handler.
func NewWhatsAppHandler(gateway *Gateway, verifyToken string) *WhatsAppHandler {
	return &WhatsAppHandler{gateway: gateway, verifyToken: verifyToken}
}

// waPayload is the WhatsApp Business webhook envelope, reduced to the
// fields the router needs.
type waPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Contacts []waContact `json:"contacts"`
				Messages []waMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type waContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type waMessage struct {
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      struct {
		Body string `json:"body"`
	} `json:"text"`
}

// HandleVerify answers the webhook subscription handshake (HTTP GET).
func (h *WhatsAppHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") != "subscribe" || q.Get("hub.verify_token") != h.verifyToken {
		http.Error(w, "verification failed", http.StatusForbidden)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(q.Get("hub.challenge")))
}

// HandleWebhook handles incoming WhatsApp messages (HTTP POST). Every text
// message in the payload is routed; replies are returned in the response
// body for the sending worker.
func (h *WhatsAppHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var payload waPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	type reply struct {
		To   string `json:"to"`
		Text string `json:"text"`
	}
	var replies []reply

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			names := map[string]string{}
			for _, c := range change.Value.Contacts {
				names[c.WaID] = c.Profile.Name
			}
			for _, msg := range change.Value.Messages {
				// Media and status updates are acknowledged, not routed.
				if msg.Type != "text" || msg.Text.Body == "" {
					continue
				}
				result, err := h.gateway.Process(r.Context(), InboundMessage{
					Platform:   PlatformWhatsApp,
					CustomerID: msg.From,
					Name:       names[msg.From],
					Text:       msg.Text.Body,
					Timestamp:  msg.Timestamp,
				})
				if err != nil {
					log.Printf("channels: whatsapp message from %s: %v", msg.From, err)
					continue
				}
				replies = append(replies, reply{To: msg.From, Text: result.Response})
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"replies": replies})
}
