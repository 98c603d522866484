package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/anthonyadade/FakeStack/internal/application/subscription"
	"github.com/anthonyadade/FakeStack/internal/domain"
	"github.com/anthonyadade/FakeStack/internal/pkg/id"
)

// SubscriptionHandler handles subscription endpoints.
type SubscriptionHandler struct {
	svc subscription.Service
}

func NewSubscriptionHandler(svc subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// Add creates a subscription record and attaches it to its parent thread or
// chat. If the attach fails after the save succeeded the record stays behind
// as an orphan; there is no rollback.
func (h *SubscriptionHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Subscription domain.Subscription `json:"subscription"`
		ID           string              `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid subscription body")
		return
	}
	body.ID = strings.TrimSpace(body.ID)
	body.Subscription.Subscriber = strings.TrimSpace(body.Subscription.Subscriber)
	if body.ID == "" || body.Subscription.Subscriber == "" ||
		(body.Subscription.Type != domain.SubTypeThread && body.Subscription.Type != domain.SubTypeChat) {
		writeText(w, http.StatusBadRequest, "Invalid subscription body")
		return
	}

	sub, err := h.svc.Create(r.Context(), body.Subscription)
	if err != nil {
		httpError(w, err, "Error when saving subscription")
		return
	}
	if err := h.svc.AttachToParent(r.Context(), body.ID, sub); err != nil {
		writeText(w, http.StatusInternalServerError, "Error when saving subscription: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.svc.Get(r.Context(), chi.URLParam(r, "subscriptionId"))
	if err != nil {
		httpError(w, err, "Error when getting subscription")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Remove deletes a subscription and strips its reference from the parent's
// subscription list.
func (h *SubscriptionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	subscriptionID := chi.URLParam(r, "subscriptionId")
	if !id.Valid(subscriptionID) {
		writeText(w, http.StatusBadRequest, "Invalid ID format")
		return
	}
	removed, err := h.svc.Delete(r.Context(), subscriptionID)
	if err != nil {
		httpError(w, err, "Error when deleting subscription")
		return
	}
	writeJSON(w, http.StatusOK, removed)
}
