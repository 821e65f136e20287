package channels

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the platform webhook endpoints on the given router.
func RegisterRoutes(r chi.Router, whatsapp *WhatsAppHandler) {
	r.Get("/api/channels/whatsapp/webhook", whatsapp.HandleVerify)
	r.Post("/api/channels/whatsapp/webhook", whatsapp.HandleWebhook)
}
