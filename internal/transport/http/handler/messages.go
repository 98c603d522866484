package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anthonyadade/FakeStack/internal/application/message"
	"github.com/anthonyadade/FakeStack/internal/domain"
)

// MessageHandler handles the global messaging endpoints.
type MessageHandler struct {
	svc message.Service
}

func NewMessageHandler(svc message.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Add stores a new global message and pushes a messageUpdate event.
func (h *MessageHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MessageToAdd *domain.Message `json:"messageToAdd"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MessageToAdd == nil {
		writeText(w, http.StatusBadRequest, "Invalid request")
		return
	}
	m := *body.MessageToAdd
	if m.Msg == "" || m.MsgFrom == "" || m.MsgDateTime.IsZero() {
		writeText(w, http.StatusBadRequest, "Invalid message body")
		return
	}

	saved, err := h.svc.Save(r.Context(), m)
	if err != nil {
		httpError(w, err, "Error when adding a message")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// List returns all global messages ascending by timestamp. A store failure
// surfaces as an empty page rather than an error.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.svc.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, []domain.DatabaseMessage{})
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// Update applies message changes, typically a reader appended to readBy.
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MessageToUpdate domain.Message `json:"messageToUpdate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request")
		return
	}
	m, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), body.MessageToUpdate)
	if err != nil {
		httpError(w, err, "Error when updating a message")
		return
	}
	writeJSON(w, http.StatusOK, m)
}
