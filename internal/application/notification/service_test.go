package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anthonyadade/FakeStack/internal/domain"
)

// --- mocks ---

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) Put(ctx context.Context, n *domain.DatabaseNotification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockNotificationStore) Get(ctx context.Context, notificationID string) (*domain.DatabaseNotification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.DatabaseNotification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) ListByUser(ctx context.Context, username string) ([]domain.DatabaseNotification, error) {
	args := m.Called(ctx, username)
	if list, _ := args.Get(0).([]domain.DatabaseNotification); list != nil {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) Update(ctx context.Context, notificationID string, updates map[string]interface{}) (*domain.DatabaseNotification, error) {
	args := m.Called(ctx, notificationID, updates)
	if n, _ := args.Get(0).(*domain.DatabaseNotification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

// recordingPublisher collects pushed notifications; safe for the concurrent
// updates MarkAllRead issues.
type recordingPublisher struct {
	mu      sync.Mutex
	created []domain.DatabaseNotification
	updated []domain.DatabaseNotification
}

func (p *recordingPublisher) NotificationCreated(n *domain.DatabaseNotification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, *n)
}
func (p *recordingPublisher) NotificationUpdated(n *domain.DatabaseNotification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, *n)
}

// --- Save tests ---

func TestSave_AssignsServerFields(t *testing.T) {
	repo := &mockNotificationStore{}
	pub := &recordingPublisher{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, pub)
	before := time.Now().UTC()
	n, err := svc.Save(context.Background(), domain.Notification{
		NotiTo:     "alice",
		NotiSource: "thread-1",
		Type:       domain.NotiTypeAnswer,
		Preview:    "a new answer",
		NotiFrom:   "bob",
		Read:       true, // client-supplied value must be overridden
	})

	require.NoError(t, err)
	assert.NotEmpty(t, n.NotificationID)
	assert.False(t, n.Read)
	assert.False(t, n.NotiDateTime.Before(before))
	repo.AssertExpectations(t)
}

func TestSave_PushesToRecipient(t *testing.T) {
	repo := &mockNotificationStore{}
	pub := &recordingPublisher{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, pub)
	n, err := svc.Save(context.Background(), domain.Notification{
		NotiTo: "alice", NotiSource: "thread-1", Type: domain.NotiTypeComment, NotiFrom: "bob",
	})

	require.NoError(t, err)
	require.Len(t, pub.created, 1)
	assert.Equal(t, n.NotificationID, pub.created[0].NotificationID)
}

func TestSave_StoreError_NoPush(t *testing.T) {
	repo := &mockNotificationStore{}
	pub := &recordingPublisher{}
	repo.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	svc := NewService(repo, pub)
	_, err := svc.Save(context.Background(), domain.Notification{NotiTo: "alice"})

	require.Error(t, err)
	assert.Empty(t, pub.created)
}

// --- MarkRead tests ---

func TestMarkRead_UpdatesAndPushes(t *testing.T) {
	repo := &mockNotificationStore{}
	pub := &recordingPublisher{}
	stored := &domain.DatabaseNotification{NotificationID: "n1"}
	stored.NotiTo = "alice"
	stored.Read = true
	repo.On("Update", mock.Anything, "n1", map[string]interface{}{"read": true}).Return(stored, nil)

	svc := NewService(repo, pub)
	n, err := svc.MarkRead(context.Background(), "n1")

	require.NoError(t, err)
	assert.True(t, n.Read)
	require.Len(t, pub.updated, 1)
	repo.AssertExpectations(t)
}

func TestMarkRead_NotFound(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("Update", mock.Anything, "missing", mock.Anything).Return(nil, domain.ErrNotFound)

	svc := NewService(repo, &recordingPublisher{})
	_, err := svc.MarkRead(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- MarkAllRead tests ---

func userNotifications(ids ...string) []domain.DatabaseNotification {
	out := make([]domain.DatabaseNotification, 0, len(ids))
	for _, nid := range ids {
		n := domain.DatabaseNotification{NotificationID: nid}
		n.NotiTo = "alice"
		out = append(out, n)
	}
	return out
}

func TestMarkAllRead_UpdatesEveryRecord(t *testing.T) {
	repo := &mockNotificationStore{}
	pub := &recordingPublisher{}
	repo.On("ListByUser", mock.Anything, "alice").Return(userNotifications("n1", "n2", "n3"), nil)
	for _, nid := range []string{"n1", "n2", "n3"} {
		stored := &domain.DatabaseNotification{NotificationID: nid}
		stored.NotiTo = "alice"
		stored.Read = true
		repo.On("Update", mock.Anything, nid, map[string]interface{}{"read": true}).Return(stored, nil)
	}

	svc := NewService(repo, pub)
	updated, err := svc.MarkAllRead(context.Background(), "alice")

	require.NoError(t, err)
	assert.Len(t, updated, 3)
	for _, n := range updated {
		assert.True(t, n.Read)
	}
	assert.Len(t, pub.updated, 3)
	repo.AssertExpectations(t)
}

func TestMarkAllRead_NoNotifications(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("ListByUser", mock.Anything, "alice").Return([]domain.DatabaseNotification{}, nil)

	svc := NewService(repo, &recordingPublisher{})
	updated, err := svc.MarkAllRead(context.Background(), "alice")

	require.NoError(t, err)
	assert.Empty(t, updated)
}

func TestMarkAllRead_PartialFailure_ReportsError(t *testing.T) {
	repo := &mockNotificationStore{}
	pub := &recordingPublisher{}
	repo.On("ListByUser", mock.Anything, "alice").Return(userNotifications("n1", "n2"), nil)
	stored := &domain.DatabaseNotification{NotificationID: "n1"}
	stored.NotiTo = "alice"
	stored.Read = true
	repo.On("Update", mock.Anything, "n1", mock.Anything).Return(stored, nil)
	repo.On("Update", mock.Anything, "n2", mock.Anything).Return(nil, errors.New("dynamo down"))

	svc := NewService(repo, pub)
	_, err := svc.MarkAllRead(context.Background(), "alice")

	// The commit for n1 stands and was pushed even though the call failed.
	require.Error(t, err)
	assert.Len(t, pub.updated, 1)
}

func TestMarkAllRead_ListError(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("ListByUser", mock.Anything, "alice").Return(nil, errors.New("dynamo down"))

	svc := NewService(repo, &recordingPublisher{})
	_, err := svc.MarkAllRead(context.Background(), "alice")

	require.Error(t, err)
}
