package domain

import "time"

// Notification types mirror the content events that can produce one.
const (
	NotiTypeMessage = "message"
	NotiTypeAnswer  = "answer"
	NotiTypeComment = "comment"
)

// PreviewLimit is the maximum number of characters in a notification preview
// before it gets truncated with a trailing ellipsis.
const PreviewLimit = 50

// Notification is a per-recipient record of a content event. `read` starts
// false and only ever transitions to true.
type Notification struct {
	NotiTo       string    `json:"notiTo" dynamodbav:"noti_to"`
	NotiSource   string    `json:"notiSource" dynamodbav:"noti_source"`
	Type         string    `json:"type" dynamodbav:"noti_type"`
	Preview      string    `json:"preview" dynamodbav:"preview"`
	NotiFrom     string    `json:"notiFrom" dynamodbav:"noti_from"`
	NotiDateTime time.Time `json:"notiDateTime" dynamodbav:"noti_date_time"`
	Read         bool      `json:"read" dynamodbav:"read"`
}

// DatabaseNotification is a notification with its store-assigned id.
type DatabaseNotification struct {
	NotificationID string `json:"_id" dynamodbav:"notification_id"`
	Notification
}

// NotificationInput is the client-supplied part of a notification. The server
// assigns the id, the timestamp and the initial read state.
type NotificationInput struct {
	NotiTo     string `json:"notiTo" validate:"required"`
	NotiSource string `json:"notiSource" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=message answer comment"`
	Preview    string `json:"preview" validate:"required"`
	NotiFrom   string `json:"notiFrom" validate:"required"`
}

// Preview truncates content text for use as a notification preview. Text
// longer than PreviewLimit characters is cut at the limit and suffixed with
// an ellipsis; shorter text passes through untouched.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLimit {
		return text
	}
	return string(runes[:PreviewLimit]) + "..."
}
