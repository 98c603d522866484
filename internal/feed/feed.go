package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/anthonyadade/FakeStack/internal/domain"
	"github.com/anthonyadade/FakeStack/internal/infrastructure/ws"
)

// DefaultToastTTL is how long a freshly pushed notification stays in the
// new-notification queue before it is dropped.
const DefaultToastTTL = 10 * time.Second

// Feed is one user's live, ordered view of their notifications. It merges a
// fetched snapshot with pushed creates and updates into a single list sorted
// most-recent-first, deduplicated by id, and keeps a transient queue of
// just-arrived notifications for toast display. Applying the same update
// twice is safe: entries are replaced by id and the list re-sorted, so the
// view converges regardless of push arrival order.
type Feed struct {
	username string
	ttl      time.Duration

	mu            sync.Mutex
	notifications []domain.DatabaseNotification
	toasts        []domain.DatabaseNotification
	timers        []*time.Timer
	closed        bool
}

// New builds a feed for username with the default toast lifetime.
func New(username string) *Feed {
	return NewWithTTL(username, DefaultToastTTL)
}

// NewWithTTL builds a feed with a custom toast lifetime.
func NewWithTTL(username string, toastTTL time.Duration) *Feed {
	return &Feed{username: username, ttl: toastTTL}
}

// Load replaces the view with a full snapshot, typically the result of a
// getNotisByUser fetch, sorted most-recent-first.
func (f *Feed) Load(snapshot []domain.DatabaseNotification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = make([]domain.DatabaseNotification, len(snapshot))
	copy(f.notifications, snapshot)
	sortDesc(f.notifications)
}

// ApplyCreate handles a pushed notificationCreate. Notifications for other
// users are ignored. New entries are prepended on the assumption that push
// order matches recency, and queued as a toast.
func (f *Feed) ApplyCreate(n domain.DatabaseNotification) {
	if n.NotiTo != f.username {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.notifications = append([]domain.DatabaseNotification{n}, f.notifications...)
	f.toasts = append(f.toasts, n)
	t := time.AfterFunc(f.ttl, f.expireToast)
	f.timers = append(f.timers, t)
}

// ApplyUpdate handles a pushed notificationUpdate: any entry with the same id
// is removed, the updated entry inserted, and the list re-sorted.
func (f *Feed) ApplyUpdate(n domain.DatabaseNotification) {
	if n.NotiTo != f.username {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.notifications[:0]
	for _, existing := range f.notifications {
		if existing.NotificationID != n.NotificationID {
			kept = append(kept, existing)
		}
	}
	f.notifications = append(kept, n)
	sortDesc(f.notifications)
}

// HandleEvent dispatches a raw push frame to the right merge operation.
// Non-notification events are ignored.
func (f *Feed) HandleEvent(ev ws.Event) {
	if ev.Notification == nil {
		return
	}
	switch ev.Event {
	case ws.EventNotificationCreate:
		f.ApplyCreate(*ev.Notification)
	case ws.EventNotificationUpdate:
		f.ApplyUpdate(*ev.Notification)
	}
}

// Listen drains push frames from conn into the feed until the connection
// fails or ctx is cancelled.
func (f *Feed) Listen(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	for {
		var ev ws.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		f.HandleEvent(ev)
	}
}

// Notifications returns a copy of the current ordered view.
func (f *Feed) Notifications() []domain.DatabaseNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.DatabaseNotification, len(f.notifications))
	copy(out, f.notifications)
	return out
}

// Toasts returns a copy of the not-yet-expired new-notification queue.
func (f *Feed) Toasts() []domain.DatabaseNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.DatabaseNotification, len(f.toasts))
	copy(out, f.toasts)
	return out
}

// Close stops all pending toast timers. The feed stays readable.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for _, t := range f.timers {
		t.Stop()
	}
	f.timers = nil
}

// expireToast drops the oldest queued toast. Toasts expire one at a time
// from the head regardless of read or dismissal state.
func (f *Feed) expireToast() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.toasts) > 0 {
		f.toasts = f.toasts[1:]
	}
}

func sortDesc(notifications []domain.DatabaseNotification) {
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].NotiDateTime.After(notifications[j].NotiDateTime)
	})
}
