package ws

import "github.com/anthonyadade/FakeStack/internal/domain"

// Outbound event names pushed to connected sessions.
const (
	EventNotificationCreate = "notificationCreate"
	EventNotificationUpdate = "notificationUpdate"
	EventMessageUpdate      = "messageUpdate"
	EventChatUpdate         = "chatUpdate"
)

// Inbound event names clients send to scope chat broadcasts.
const (
	EventJoinChat  = "joinChat"
	EventLeaveChat = "leaveChat"
)

// Event is the wire frame for both directions of the socket. Event names
// multiplex the payload fields; exactly one payload is set per frame.
type Event struct {
	Event        string                       `json:"event"`
	Notification *domain.DatabaseNotification `json:"notification,omitempty"`
	Msg          *domain.DatabaseMessage      `json:"msg,omitempty"`
	Chat         *domain.Chat                 `json:"chat,omitempty"`
	Type         string                       `json:"type,omitempty"`   // chatUpdate subtype
	ChatID       string                       `json:"chatID,omitempty"` // joinChat / leaveChat target
}
