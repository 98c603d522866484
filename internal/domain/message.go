package domain

import "time"

// Message scopes. Global messages show on the shared board; direct messages
// belong to a chat.
const (
	MsgTypeGlobal = "global"
	MsgTypeDirect = "direct"
)

// Message is a single chat or board message.
type Message struct {
	Msg         string    `json:"msg" dynamodbav:"msg" validate:"required"`
	MsgFrom     string    `json:"msgFrom" dynamodbav:"msg_from" validate:"required"`
	MsgDateTime time.Time `json:"msgDateTime" dynamodbav:"msg_date_time" validate:"required"`
	Type        string    `json:"type" dynamodbav:"msg_type"`
	ReadBy      []string  `json:"readBy" dynamodbav:"read_by"`
}

// DatabaseMessage is a message with its store-assigned id.
type DatabaseMessage struct {
	MessageID string `json:"_id" dynamodbav:"message_id"`
	Message
}
