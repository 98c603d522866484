package message

import (
	"context"
	"fmt"

	"github.com/anthonyadade/FakeStack/internal/domain"
	"github.com/anthonyadade/FakeStack/internal/pkg/id"
	"github.com/anthonyadade/FakeStack/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldMsg    = "msg"
	fieldReadBy = "read_by"
)

// Publisher pushes message changes to connected sessions.
type Publisher interface {
	MessageUpdated(m *domain.DatabaseMessage)
}

type Service interface {
	Save(ctx context.Context, input domain.Message) (*domain.DatabaseMessage, error)
	List(ctx context.Context) ([]domain.DatabaseMessage, error)
	Update(ctx context.Context, messageID string, input domain.Message) (*domain.DatabaseMessage, error)
}

type messageStore interface {
	Put(ctx context.Context, m *domain.DatabaseMessage) error
	ListByType(ctx context.Context, msgType string) ([]domain.DatabaseMessage, error)
	Update(ctx context.Context, messageID string, updates map[string]interface{}) (*domain.DatabaseMessage, error)
}

type service struct {
	repo messageStore
	pub  Publisher
}

func NewService(repo messageStore, pub Publisher) Service {
	return &service{repo: repo, pub: pub}
}

// Save stores a new global-scope message and pushes it to every session.
func (s *service) Save(ctx context.Context, input domain.Message) (*domain.DatabaseMessage, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}
	input.Type = domain.MsgTypeGlobal
	if input.ReadBy == nil {
		input.ReadBy = []string{}
	}
	m := &domain.DatabaseMessage{
		MessageID: id.New(),
		Message:   input,
	}
	if err := s.repo.Put(ctx, m); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	s.pub.MessageUpdated(m)
	return m, nil
}

// List returns all global-scope messages ascending by timestamp.
func (s *service) List(ctx context.Context) ([]domain.DatabaseMessage, error) {
	return s.repo.ListByType(ctx, domain.MsgTypeGlobal)
}

// Update applies the mutable message fields, typically a reader appended to
// readBy, and returns the stored record.
func (s *service) Update(ctx context.Context, messageID string, input domain.Message) (*domain.DatabaseMessage, error) {
	updates := map[string]interface{}{}
	if input.Msg != "" {
		updates[fieldMsg] = input.Msg
	}
	if input.ReadBy != nil {
		updates[fieldReadBy] = input.ReadBy
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrBadRequest)
	}
	m, err := s.repo.Update(ctx, messageID, updates)
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	return m, nil
}
