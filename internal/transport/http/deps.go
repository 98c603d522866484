package http

import (
	"github.com/anthonyadade/FakeStack/internal/infrastructure/dynamo"
	"github.com/anthonyadade/FakeStack/internal/infrastructure/ws"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	NotificationRepo *dynamo.NotificationRepo
	SubscriptionRepo *dynamo.SubscriptionRepo
	ThreadRepo       *dynamo.ThreadRepo
	ChatRepo         *dynamo.ChatRepo
	MessageRepo      *dynamo.MessageRepo
	Hub              *ws.Hub
}
