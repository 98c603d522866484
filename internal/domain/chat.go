package domain

import "time"

// Chat update subtypes carried on chatUpdate push events.
const (
	ChatUpdateCreated        = "created"
	ChatUpdateNewMessage     = "newMessage"
	ChatUpdateNewParticipant = "newParticipant"
	ChatUpdateNewViewer      = "newViewer"
)

// Chat is the subscribable shape of a direct-message chat: its participants,
// message ids and attached subscriptions.
type Chat struct {
	ChatID        string    `json:"_id" dynamodbav:"chat_id"`
	Participants  []string  `json:"participants" dynamodbav:"participants"`
	Messages      []string  `json:"messages" dynamodbav:"messages"`
	Subscriptions []string  `json:"subscriptions" dynamodbav:"subscriptions"`
	CreatedAt     time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// SubscriptionList wraps the chat's raw subscription ids in the tagged list
// shape the registry normalizes.
func (c *Chat) SubscriptionList() SubscriptionList {
	return SubscriptionList{IDs: c.Subscriptions}
}
