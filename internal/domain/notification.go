package domain

import "time"

// NotificationType classifies a notification for the client UI.
type NotificationType string

const (
	NotificationChat   NotificationType = "CHAT"
	NotificationTrade  NotificationType = "TRADE"
	NotificationReview NotificationType = "REVIEW"
	NotificationSystem NotificationType = "SYSTEM"
	NotificationBadge  NotificationType = "BADGE"
)

// Notification is the durable notification record. IsPushSent and SentAt
// move from false/nil to true/t once delivery has been attempted.
type Notification struct {
	NotificationID string           `json:"id" dynamodbav:"notification_id"`
	UserID         string           `json:"user_id" dynamodbav:"user_id"`
	Title          string           `json:"title" dynamodbav:"title"`
	Body           string           `json:"body" dynamodbav:"body"`
	Type           NotificationType `json:"type" dynamodbav:"type"`
	Link           string           `json:"link" dynamodbav:"link"`
	Image          string           `json:"image" dynamodbav:"image"`
	IsPushSent     bool             `json:"is_push_sent" dynamodbav:"is_push_sent"`
	SentAt         *time.Time       `json:"sent_at,omitempty" dynamodbav:"sent_at,omitempty"`
	IsRead         bool             `json:"is_read" dynamodbav:"is_read"`
	CreatedAt      time.Time        `json:"created" dynamodbav:"created_at"`
}

// PushPayload is the JSON document delivered to the push service.
type PushPayload struct {
	Title string           `json:"title"`
	Body  string           `json:"body"`
	Link  string           `json:"link"`
	Type  NotificationType `json:"type"`
	Image string           `json:"image"`
}

// Payload returns the push payload for n.
func (n *Notification) Payload() PushPayload {
	return PushPayload{Title: n.Title, Body: n.Body, Link: n.Link, Type: n.Type, Image: n.Image}
}

// DeliveryStatus is the outcome of one push attempt.
type DeliveryStatus string

const (
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryTransient DeliveryStatus = "transient"
	DeliveryGone      DeliveryStatus = "gone"
)

// SubscriptionOutcome records the push result for one subscription.
type SubscriptionOutcome struct {
	SubscriptionID string
	Status         DeliveryStatus
	Err            error
}

// DeliveryReport summarises one Deliver call.
type DeliveryReport struct {
	NotificationID string
	BroadcastErr   error
	PushErr        error // set when the push attempt could not start
	Outcomes       []SubscriptionOutcome
	MarkedSent     bool
}

// Count returns how many outcomes have the given status.
func (r DeliveryReport) Count(status DeliveryStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
