package dynamo

// DynamoDB attribute names used in update and condition expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID         = "user_id"
	fieldBadgeKey       = "badge_key"
	fieldNotificationID = "notification_id"
	fieldSubscriptionID = "subscription_id"
	fieldEndpoint       = "endpoint"
	fieldP256dh         = "p256dh"
	fieldAuth           = "auth"
	fieldIsActive       = "is_active"
	fieldIsPushSent     = "is_push_sent"
	fieldSentAt         = "sent_at"
	fieldIsRead         = "is_read"
	fieldUpdatedAt      = "updated_at"
	fieldCreatedAt      = "created_at"
)

// Index names.
const (
	indexUserCreatedAt = "user_id-created_at-index"
	indexUser          = "user_id-index"
)
