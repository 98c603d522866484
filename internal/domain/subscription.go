package domain

// Subscription types name the kind of parent entity being followed.
const (
	SubTypeThread = "thread"
	SubTypeChat   = "chat"
)

// Subscription is a user's opt-in to updates on a single thread or chat.
type Subscription struct {
	Type       string `json:"type" dynamodbav:"sub_type" validate:"required,oneof=thread chat"`
	Subscriber string `json:"subscriber" dynamodbav:"subscriber" validate:"required"`
}

// DatabaseSubscription is a subscription with its store-assigned id.
type DatabaseSubscription struct {
	SubscriptionID string `json:"_id" dynamodbav:"subscription_id"`
	Subscription
}

// SubscriptionList is a parent entity's subscription list in whichever shape
// the caller materialized it: raw ids that still need fetching, or records
// that were already resolved. Exactly one of the two fields is set.
type SubscriptionList struct {
	IDs     []string
	Records []DatabaseSubscription
}

// Resolved reports whether the list already carries full records.
func (l SubscriptionList) Resolved() bool {
	return l.Records != nil
}

// DeleteResult is the store-level acknowledgement returned by subscription
// removal.
type DeleteResult struct {
	Acknowledged bool `json:"acknowledged"`
	DeletedCount int  `json:"deletedCount"`
}
