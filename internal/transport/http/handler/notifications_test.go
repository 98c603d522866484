package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anthonyadade/FakeStack/internal/domain"
	"github.com/anthonyadade/FakeStack/internal/pkg/id"
)

// --- mock ---

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) Save(ctx context.Context, input domain.Notification) (*domain.DatabaseNotification, error) {
	args := m.Called(ctx, input)
	if n, _ := args.Get(0).(*domain.DatabaseNotification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationSvc) Get(ctx context.Context, notificationID string) (*domain.DatabaseNotification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.DatabaseNotification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationSvc) ListByUser(ctx context.Context, username string) ([]domain.DatabaseNotification, error) {
	args := m.Called(ctx, username)
	if list, _ := args.Get(0).([]domain.DatabaseNotification); list != nil {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationSvc) MarkRead(ctx context.Context, notificationID string) (*domain.DatabaseNotification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.DatabaseNotification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationSvc) MarkAllRead(ctx context.Context, username string) ([]domain.DatabaseNotification, error) {
	args := m.Called(ctx, username)
	if list, _ := args.Get(0).([]domain.DatabaseNotification); list != nil {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func notificationRouter(svc *mockNotificationSvc) http.Handler {
	h := NewNotificationHandler(svc)
	r := chi.NewRouter()
	r.Post("/notification/addNotification", h.Add)
	r.Get("/notification/getNotification/{notificationId}", h.Get)
	r.Get("/notification/getNotisByUser/{username}", h.ListByUser)
	r.Patch("/notification/markNotiRead/{notificationId}", h.MarkRead)
	r.Patch("/notification/markAllNotisRead/{username}", h.MarkAllRead)
	return r
}

func addBody(t *testing.T, input domain.NotificationInput) *bytes.Buffer {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{"notificationToAdd": input})
	require.NoError(t, err)
	return bytes.NewBuffer(raw)
}

func validInput() domain.NotificationInput {
	return domain.NotificationInput{
		NotiTo:     "alice",
		NotiSource: "thread-1",
		Type:       domain.NotiTypeAnswer,
		Preview:    "a new answer",
		NotiFrom:   "bob",
	}
}

// --- Add tests ---

func TestAddNotification_OK(t *testing.T) {
	svc := &mockNotificationSvc{}
	stored := &domain.DatabaseNotification{NotificationID: id.New()}
	stored.NotiTo = "alice"
	stored.NotiDateTime = time.Now().UTC()
	svc.On("Save", mock.Anything, mock.Anything).Return(stored, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notification/addNotification", addBody(t, validInput()))
	notificationRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.DatabaseNotification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, stored.NotificationID, got.NotificationID)
	assert.False(t, got.Read)
	assert.False(t, got.NotiDateTime.IsZero())
}

func TestAddNotification_MissingRecipient(t *testing.T) {
	input := validInput()
	input.NotiTo = "   "

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notification/addNotification", addBody(t, input))
	notificationRouter(&mockNotificationSvc{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid notification body", rec.Body.String())
}

func TestAddNotification_UnknownType(t *testing.T) {
	input := validInput()
	input.Type = "upvote"

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notification/addNotification", addBody(t, input))
	notificationRouter(&mockNotificationSvc{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid notification body", rec.Body.String())
}

func TestAddNotification_MalformedJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notification/addNotification", bytes.NewBufferString("{"))
	notificationRouter(&mockNotificationSvc{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddNotification_StoreError(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Save", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notification/addNotification", addBody(t, validInput()))
	notificationRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error when saving notification")
}

// --- Get / ListByUser tests ---

func TestGetNotification_NotFoundIsServerError(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notification/getNotification/missing", nil)
	notificationRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error when getting notification")
}

func TestGetNotisByUser_OK(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("ListByUser", mock.Anything, "alice").Return([]domain.DatabaseNotification{
		{NotificationID: "n1"}, {NotificationID: "n2"},
	}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/notification/getNotisByUser/alice", nil)
	notificationRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.DatabaseNotification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

// --- MarkRead tests ---

func TestMarkNotiRead_MalformedID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/notification/markNotiRead/not-a-ulid", nil)
	notificationRouter(&mockNotificationSvc{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ID format", rec.Body.String())
}

func TestMarkNotiRead_OK(t *testing.T) {
	notificationID := id.New()
	svc := &mockNotificationSvc{}
	stored := &domain.DatabaseNotification{NotificationID: notificationID}
	stored.Read = true
	svc.On("MarkRead", mock.Anything, notificationID).Return(stored, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/notification/markNotiRead/"+notificationID, nil)
	notificationRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.DatabaseNotification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Read)
}

func TestMarkAllNotisRead_Error(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("MarkAllRead", mock.Anything, "alice").Return(nil, assert.AnError)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/notification/markAllNotisRead/alice", nil)
	notificationRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error when marking user's notifications as read")
}
