package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthonyadade/FakeStack/internal/domain"
	"github.com/anthonyadade/FakeStack/internal/pkg/id"
	"github.com/anthonyadade/FakeStack/internal/pkg/validate"
)

// Service is the subscription registry: the authoritative store for
// subscription records and the keeper of their attachment to parent threads
// and chats. Record and parent list are two independent writes with no
// transaction between them; each operation performs both, in an order that
// keeps failures detectable (see Delete).
type Service interface {
	Create(ctx context.Context, sub domain.Subscription) (*domain.DatabaseSubscription, error)
	AttachToParent(ctx context.Context, parentID string, sub *domain.DatabaseSubscription) error
	Get(ctx context.Context, subscriptionID string) (*domain.DatabaseSubscription, error)
	Delete(ctx context.Context, subscriptionID string) (*domain.DeleteResult, error)
	Resolve(ctx context.Context, list domain.SubscriptionList) ([]domain.DatabaseSubscription, error)
	UserSubscriptionID(ctx context.Context, list domain.SubscriptionList, username string) (string, error)
}

type subscriptionStore interface {
	Put(ctx context.Context, s *domain.DatabaseSubscription) error
	Get(ctx context.Context, subscriptionID string) (*domain.DatabaseSubscription, error)
	Delete(ctx context.Context, subscriptionID string) error
}

type threadStore interface {
	PushSubscription(ctx context.Context, threadID, subscriptionID string) (*domain.Thread, error)
	PullSubscription(ctx context.Context, subscriptionID string) error
}

type chatStore interface {
	PushSubscription(ctx context.Context, chatID, subscriptionID string) (*domain.Chat, error)
	PullSubscription(ctx context.Context, subscriptionID string) error
}

type service struct {
	repo    subscriptionStore
	threads threadStore
	chats   chatStore
}

func NewService(repo subscriptionStore, threads threadStore, chats chatStore) Service {
	return &service{repo: repo, threads: threads, chats: chats}
}

// Create validates and stores a new subscription record. Attachment to the
// parent entity is a separate step (AttachToParent).
func (s *service) Create(ctx context.Context, sub domain.Subscription) (*domain.DatabaseSubscription, error) {
	if err := validate.Struct(sub); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}
	record := &domain.DatabaseSubscription{
		SubscriptionID: id.New(),
		Subscription:   sub,
	}
	if err := s.repo.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}
	return record, nil
}

// AttachToParent prepends the subscription's id to its parent's subscription
// list. The parent kind follows the subscription type.
func (s *service) AttachToParent(ctx context.Context, parentID string, sub *domain.DatabaseSubscription) error {
	if sub == nil || sub.Type == "" || sub.Subscriber == "" {
		return fmt.Errorf("%w: invalid subscription", domain.ErrBadRequest)
	}
	switch sub.Type {
	case domain.SubTypeThread:
		if _, err := s.threads.PushSubscription(ctx, parentID, sub.SubscriptionID); err != nil {
			return fmt.Errorf("add subscription to thread: %w", err)
		}
	case domain.SubTypeChat:
		if _, err := s.chats.PushSubscription(ctx, parentID, sub.SubscriptionID); err != nil {
			return fmt.Errorf("add subscription to chat: %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown subscription type %q", domain.ErrBadRequest, sub.Type)
	}
	return nil
}

func (s *service) Get(ctx context.Context, subscriptionID string) (*domain.DatabaseSubscription, error) {
	return s.repo.Get(ctx, subscriptionID)
}

// Delete removes a subscription: validate the id, fetch the record so the
// parent kind is known, delete it, then strip its id from every parent list
// of that kind. A failure between delete and strip leaves a stale parent ref
// that Resolve tolerates.
func (s *service) Delete(ctx context.Context, subscriptionID string) (*domain.DeleteResult, error) {
	if !id.Valid(subscriptionID) {
		return nil, fmt.Errorf("%w: invalid ID format", domain.ErrBadRequest)
	}
	sub, err := s.repo.Get(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("delete subscription: %w", err)
	}
	if err := s.repo.Delete(ctx, subscriptionID); err != nil {
		return nil, fmt.Errorf("delete subscription: %w", err)
	}
	switch sub.Type {
	case domain.SubTypeThread:
		err = s.threads.PullSubscription(ctx, subscriptionID)
	case domain.SubTypeChat:
		err = s.chats.PullSubscription(ctx, subscriptionID)
	}
	if err != nil {
		return nil, fmt.Errorf("remove subscription from parent: %w", err)
	}
	return &domain.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// Resolve normalizes a parent's subscription list to full records whichever
// shape it arrived in. Ids whose record no longer exists are stale parent
// refs from an interrupted delete and are skipped.
func (s *service) Resolve(ctx context.Context, list domain.SubscriptionList) ([]domain.DatabaseSubscription, error) {
	if list.Resolved() {
		return list.Records, nil
	}
	records := make([]domain.DatabaseSubscription, 0, len(list.IDs))
	for _, sid := range list.IDs {
		sub, err := s.repo.Get(ctx, sid)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve subscription %s: %w", sid, err)
		}
		records = append(records, *sub)
	}
	return records, nil
}

// UserSubscriptionID reports the id of username's subscription within the
// given parent list, or "" when the user is not subscribed.
func (s *service) UserSubscriptionID(ctx context.Context, list domain.SubscriptionList, username string) (string, error) {
	subs, err := s.Resolve(ctx, list)
	if err != nil {
		return "", err
	}
	for _, sub := range subs {
		if sub.Subscriber == username {
			return sub.SubscriptionID, nil
		}
	}
	return "", nil
}
