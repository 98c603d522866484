package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/anthonyadade/FakeStack/internal/application/notification"
	"github.com/anthonyadade/FakeStack/internal/domain"
	"github.com/anthonyadade/FakeStack/internal/pkg/id"
	"github.com/anthonyadade/FakeStack/internal/pkg/validate"
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// Add creates a notification from a client-supplied body. The server assigns
// id, timestamp and the initial unread state.
func (h *NotificationHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		NotificationToAdd domain.NotificationInput `json:"notificationToAdd"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid notification body")
		return
	}
	input := body.NotificationToAdd
	input.NotiTo = strings.TrimSpace(input.NotiTo)
	input.NotiSource = strings.TrimSpace(input.NotiSource)
	input.Preview = strings.TrimSpace(input.Preview)
	input.NotiFrom = strings.TrimSpace(input.NotiFrom)
	if err := validate.Struct(input); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid notification body")
		return
	}

	n, err := h.svc.Save(r.Context(), domain.Notification{
		NotiTo:     input.NotiTo,
		NotiSource: input.NotiSource,
		Type:       input.Type,
		Preview:    input.Preview,
		NotiFrom:   input.NotiFrom,
	})
	if err != nil {
		httpError(w, err, "Error when saving notification")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Get(r.Context(), chi.URLParam(r, "notificationId"))
	if err != nil {
		httpError(w, err, "Error when getting notification")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.svc.ListByUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httpError(w, err, "Error when fetching user's notifications")
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkRead flips one notification to read and triggers a notificationUpdate
// push so all of the recipient's sessions converge.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID := chi.URLParam(r, "notificationId")
	if !id.Valid(notificationID) {
		writeText(w, http.StatusBadRequest, "Invalid ID format")
		return
	}
	n, err := h.svc.MarkRead(r.Context(), notificationID)
	if err != nil {
		httpError(w, err, "Error when updating notification read status")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	updated, err := h.svc.MarkAllRead(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httpError(w, err, "Error when marking user's notifications as read")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
