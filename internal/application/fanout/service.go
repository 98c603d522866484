package fanout

import (
	"context"
	"fmt"
	"sync"

	"github.com/anthonyadade/FakeStack/internal/domain"
)

// Event is one content-creation event to fan out: a new answer or comment on
// a thread. Chat messages do not fan out.
type Event struct {
	Kind     string // domain.NotiTypeAnswer or domain.NotiTypeComment
	ParentID string // id of the thread the content was posted on
	Author   string // username of the poster, excluded from delivery
	Text     string // content body, truncated into the preview
}

// Failure records one subscriber whose notification could not be created.
type Failure struct {
	Subscriber string
	Err        error
}

// Result reports the outcome per subscriber. The caller decides whether a
// partial failure is acceptable; nothing here is retried.
type Result struct {
	Succeeded []string // created notification ids, in no particular order
	Failed    []Failure
}

// Service translates one content event into zero or more notification
// creations, one per subscriber on the parent thread minus the author.
type Service interface {
	FanOut(ctx context.Context, ev Event) (*Result, error)
}

type threadStore interface {
	Get(ctx context.Context, threadID string) (*domain.Thread, error)
}

type registry interface {
	Resolve(ctx context.Context, list domain.SubscriptionList) ([]domain.DatabaseSubscription, error)
}

type notifier interface {
	Save(ctx context.Context, input domain.Notification) (*domain.DatabaseNotification, error)
}

type service struct {
	threads       threadStore
	subscriptions registry
	notifications notifier
}

func NewService(threads threadStore, subscriptions registry, notifications notifier) Service {
	return &service{threads: threads, subscriptions: subscriptions, notifications: notifications}
}

// FanOut fetches the parent thread's subscribers and creates one notification
// per subscriber other than the author, concurrently and independently: one
// failed creation never blocks the rest. If the parent fetch itself fails, no
// notifications are created at all and the error is returned.
func (s *service) FanOut(ctx context.Context, ev Event) (*Result, error) {
	if ev.Kind != domain.NotiTypeAnswer && ev.Kind != domain.NotiTypeComment {
		return nil, fmt.Errorf("%w: cannot fan out event kind %q", domain.ErrBadRequest, ev.Kind)
	}

	thread, err := s.threads.Get(ctx, ev.ParentID)
	if err != nil {
		return nil, fmt.Errorf("fetch parent thread: %w", err)
	}
	subs, err := s.subscriptions.Resolve(ctx, thread.SubscriptionList())
	if err != nil {
		return nil, fmt.Errorf("resolve subscribers: %w", err)
	}

	preview := domain.Preview(ev.Text)

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result Result
	)
	for _, sub := range subs {
		if sub.Subscriber == ev.Author {
			continue
		}
		wg.Add(1)
		go func(recipient string) {
			defer wg.Done()
			created, err := s.notifications.Save(ctx, domain.Notification{
				NotiTo:     recipient,
				NotiSource: ev.ParentID,
				Type:       ev.Kind,
				Preview:    preview,
				NotiFrom:   ev.Author,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, Failure{Subscriber: recipient, Err: err})
				return
			}
			result.Succeeded = append(result.Succeeded, created.NotificationID)
		}(sub.Subscriber)
	}
	wg.Wait()

	return &result, nil
}
