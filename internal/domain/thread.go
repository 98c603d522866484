package domain

import "time"

// Thread is the slice of a question thread this service depends on: who wrote
// it, who participates, and which subscriptions hang off it. The full Q&A
// document (title, body, answers, votes) lives with the content service.
type Thread struct {
	ThreadID      string    `json:"_id" dynamodbav:"thread_id"`
	AskedBy       string    `json:"askedBy" dynamodbav:"asked_by"`
	Participants  []string  `json:"participants" dynamodbav:"participants"`
	Subscriptions []string  `json:"subscriptions" dynamodbav:"subscriptions"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

// SubscriptionList wraps the thread's raw subscription ids in the tagged
// list shape the registry normalizes.
func (t *Thread) SubscriptionList() SubscriptionList {
	return SubscriptionList{IDs: t.Subscriptions}
}
