package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the message endpoint on the given router.
func RegisterRoutes(r chi.Router, router *Router) {
	h := &Handler{router: router}
	r.Post("/api/v1/messages", h.HandleMessage)
}

// Handler serves the inbound command endpoint.
type Handler struct {
	router *Router
}

// HandleMessage routes one inbound message (HTTP POST). Only malformed input
// yields an error status; collaborator failures come back as a degraded but
// well-formed result.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	defer r.Body.Close()

	result, err := h.router.Route(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) || errors.Is(err, ErrEmptyCustomerID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "routing failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
