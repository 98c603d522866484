package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anthonyadade/FakeStack/internal/domain"
	"github.com/anthonyadade/FakeStack/internal/pkg/id"
)

// DynamoDB attribute name used in partial update maps.
const fieldRead = "read"

// Publisher receives commit hooks so live sessions see creates and updates
// as they land. Pushes are best-effort and never fail the durable write.
type Publisher interface {
	NotificationCreated(n *domain.DatabaseNotification)
	NotificationUpdated(n *domain.DatabaseNotification)
}

type Service interface {
	Save(ctx context.Context, input domain.Notification) (*domain.DatabaseNotification, error)
	Get(ctx context.Context, notificationID string) (*domain.DatabaseNotification, error)
	ListByUser(ctx context.Context, username string) ([]domain.DatabaseNotification, error)
	MarkRead(ctx context.Context, notificationID string) (*domain.DatabaseNotification, error)
	MarkAllRead(ctx context.Context, username string) ([]domain.DatabaseNotification, error)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.DatabaseNotification) error
	Get(ctx context.Context, notificationID string) (*domain.DatabaseNotification, error)
	ListByUser(ctx context.Context, username string) ([]domain.DatabaseNotification, error)
	Update(ctx context.Context, notificationID string, updates map[string]interface{}) (*domain.DatabaseNotification, error)
}

type service struct {
	repo notificationStore
	pub  Publisher
}

func NewService(repo notificationStore, pub Publisher) Service {
	return &service{repo: repo, pub: pub}
}

// Save stores a new notification with a fresh id, a server-assigned
// timestamp and read=false, then pushes it to the recipient's sessions.
func (s *service) Save(ctx context.Context, input domain.Notification) (*domain.DatabaseNotification, error) {
	n := &domain.DatabaseNotification{
		NotificationID: id.New(),
		Notification:   input,
	}
	n.NotiDateTime = time.Now().UTC()
	n.Read = false
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("save notification: %w", err)
	}
	s.pub.NotificationCreated(n)
	return n, nil
}

func (s *service) Get(ctx context.Context, notificationID string) (*domain.DatabaseNotification, error) {
	return s.repo.Get(ctx, notificationID)
}

func (s *service) ListByUser(ctx context.Context, username string) ([]domain.DatabaseNotification, error) {
	return s.repo.ListByUser(ctx, username)
}

// MarkRead flips a single notification to read and pushes the update.
// Marking an already-read notification is a harmless no-op in effect.
func (s *service) MarkRead(ctx context.Context, notificationID string) (*domain.DatabaseNotification, error) {
	n, err := s.repo.Update(ctx, notificationID, map[string]interface{}{fieldRead: true})
	if err != nil {
		return nil, fmt.Errorf("update notification read status: %w", err)
	}
	s.pub.NotificationUpdated(n)
	return n, nil
}

// MarkAllRead marks every notification for the user read, one concurrent
// update per record. The bulk operation is not atomic: updates that commit
// before a later one fails stay committed (and stay pushed), and the call
// reports the first failure.
func (s *service) MarkAllRead(ctx context.Context, username string) ([]domain.DatabaseNotification, error) {
	notifications, err := s.repo.ListByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list notifications for %s: %w", username, err)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		updated  = make([]domain.DatabaseNotification, 0, len(notifications))
		firstErr error
	)
	for _, n := range notifications {
		wg.Add(1)
		go func(notificationID string) {
			defer wg.Done()
			un, err := s.repo.Update(ctx, notificationID, map[string]interface{}{fieldRead: true})
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			s.pub.NotificationUpdated(un)
			mu.Lock()
			updated = append(updated, *un)
			mu.Unlock()
		}(n.NotificationID)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("mark all read for %s: %w", username, firstErr)
	}
	return updated, nil
}
