package fanout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anthonyadade/FakeStack/internal/domain"
)

// --- mocks ---

type mockThreadStore struct{ mock.Mock }

func (m *mockThreadStore) Get(ctx context.Context, threadID string) (*domain.Thread, error) {
	args := m.Called(ctx, threadID)
	if th, _ := args.Get(0).(*domain.Thread); th != nil {
		return th, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRegistry struct{ mock.Mock }

func (m *mockRegistry) Resolve(ctx context.Context, list domain.SubscriptionList) ([]domain.DatabaseSubscription, error) {
	args := m.Called(ctx, list)
	if subs, _ := args.Get(0).([]domain.DatabaseSubscription); subs != nil {
		return subs, args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeNotifier records creations; thread safe because FanOut saves
// concurrently.
type fakeNotifier struct {
	mu      sync.Mutex
	saved   []domain.Notification
	failFor map[string]error
	next    int
}

func (f *fakeNotifier) Save(ctx context.Context, input domain.Notification) (*domain.DatabaseNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[input.NotiTo]; ok {
		return nil, err
	}
	f.saved = append(f.saved, input)
	f.next++
	n := &domain.DatabaseNotification{NotificationID: "n" + string(rune('0'+f.next))}
	n.Notification = input
	return n, nil
}

func (f *fakeNotifier) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.saved))
	for _, n := range f.saved {
		out = append(out, n.NotiTo)
	}
	return out
}

func subscribers(names ...string) []domain.DatabaseSubscription {
	subs := make([]domain.DatabaseSubscription, 0, len(names))
	for i, name := range names {
		subs = append(subs, domain.DatabaseSubscription{
			SubscriptionID: "s" + string(rune('0'+i)),
			Subscription:   domain.Subscription{Type: domain.SubTypeThread, Subscriber: name},
		})
	}
	return subs
}

func newFanout(thread *domain.Thread, subs []domain.DatabaseSubscription, notifier *fakeNotifier) Service {
	threads := &mockThreadStore{}
	threads.On("Get", mock.Anything, thread.ThreadID).Return(thread, nil)
	registry := &mockRegistry{}
	registry.On("Resolve", mock.Anything, mock.Anything).Return(subs, nil)
	return NewService(threads, registry, notifier)
}

// --- FanOut tests ---

func TestFanOut_ExcludesAuthor(t *testing.T) {
	thread := &domain.Thread{ThreadID: "thread-1", Subscriptions: []string{"s0", "s1", "s2"}}
	notifier := &fakeNotifier{}
	svc := newFanout(thread, subscribers("alice", "bob", "carol"), notifier)

	result, err := svc.FanOut(context.Background(), Event{
		Kind: domain.NotiTypeAnswer, ParentID: "thread-1", Author: "bob", Text: "an answer",
	})

	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 2)
	assert.Empty(t, result.Failed)
	assert.ElementsMatch(t, []string{"alice", "carol"}, notifier.recipients())
}

func TestFanOut_NotificationFields(t *testing.T) {
	thread := &domain.Thread{ThreadID: "thread-1", Subscriptions: []string{"s0"}}
	notifier := &fakeNotifier{}
	svc := newFanout(thread, subscribers("alice"), notifier)

	_, err := svc.FanOut(context.Background(), Event{
		Kind: domain.NotiTypeComment, ParentID: "thread-1", Author: "bob", Text: "a comment",
	})

	require.NoError(t, err)
	require.Len(t, notifier.saved, 1)
	n := notifier.saved[0]
	assert.Equal(t, "alice", n.NotiTo)
	assert.Equal(t, "thread-1", n.NotiSource)
	assert.Equal(t, domain.NotiTypeComment, n.Type)
	assert.Equal(t, "a comment", n.Preview)
	assert.Equal(t, "bob", n.NotiFrom)
}

func TestFanOut_TruncatesPreview(t *testing.T) {
	thread := &domain.Thread{ThreadID: "thread-1", Subscriptions: []string{"s0"}}
	notifier := &fakeNotifier{}
	svc := newFanout(thread, subscribers("alice"), notifier)

	text := strings.Repeat("x", 80)
	_, err := svc.FanOut(context.Background(), Event{
		Kind: domain.NotiTypeAnswer, ParentID: "thread-1", Author: "bob", Text: text,
	})

	require.NoError(t, err)
	require.Len(t, notifier.saved, 1)
	assert.Equal(t, strings.Repeat("x", domain.PreviewLimit)+"...", notifier.saved[0].Preview)
}

func TestFanOut_PartialFailure(t *testing.T) {
	thread := &domain.Thread{ThreadID: "thread-1", Subscriptions: []string{"s0", "s1", "s2"}}
	notifier := &fakeNotifier{failFor: map[string]error{"carol": errors.New("dynamo down")}}
	svc := newFanout(thread, subscribers("alice", "bob", "carol"), notifier)

	result, err := svc.FanOut(context.Background(), Event{
		Kind: domain.NotiTypeAnswer, ParentID: "thread-1", Author: "zed", Text: "an answer",
	})

	// A failed creation never blocks the rest and never fails the whole call.
	require.NoError(t, err)
	assert.Len(t, result.Succeeded, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "carol", result.Failed[0].Subscriber)
}

func TestFanOut_ParentFetchError_NoCreations(t *testing.T) {
	threads := &mockThreadStore{}
	threads.On("Get", mock.Anything, "gone").Return(nil, domain.ErrNotFound)
	notifier := &fakeNotifier{}
	svc := NewService(threads, &mockRegistry{}, notifier)

	_, err := svc.FanOut(context.Background(), Event{
		Kind: domain.NotiTypeAnswer, ParentID: "gone", Author: "bob", Text: "x",
	})

	require.Error(t, err)
	assert.Empty(t, notifier.saved)
}

func TestFanOut_RejectsUnknownKind(t *testing.T) {
	svc := NewService(&mockThreadStore{}, &mockRegistry{}, &fakeNotifier{})
	_, err := svc.FanOut(context.Background(), Event{
		Kind: domain.NotiTypeMessage, ParentID: "thread-1", Author: "bob",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestFanOut_AuthorOnlySubscriber_NothingSent(t *testing.T) {
	thread := &domain.Thread{ThreadID: "thread-1", Subscriptions: []string{"s0"}}
	notifier := &fakeNotifier{}
	svc := newFanout(thread, subscribers("bob"), notifier)

	result, err := svc.FanOut(context.Background(), Event{
		Kind: domain.NotiTypeComment, ParentID: "thread-1", Author: "bob", Text: "self reply",
	})

	require.NoError(t, err)
	assert.Empty(t, result.Succeeded)
	assert.Empty(t, result.Failed)
	assert.Empty(t, notifier.saved)
}
