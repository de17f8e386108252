package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// PushSubscription is a browser Web Push registration. A user may hold one
// per device; every active one receives each notification.
type PushSubscription struct {
	SubscriptionID string    `json:"id" dynamodbav:"subscription_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Endpoint       string    `json:"endpoint" dynamodbav:"endpoint"`
	P256dh         string    `json:"p256dh" dynamodbav:"p256dh"`
	Auth           string    `json:"auth" dynamodbav:"auth"`
	IsActive       bool      `json:"is_active" dynamodbav:"is_active"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

// SubscribeRequest mirrors the browser PushSubscription JSON.
type SubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

// SubscriptionIDFor derives the subscription id from a push endpoint. Browsers
// reuse the endpoint across re-subscribes, so one endpoint is one row.
func SubscriptionIDFor(endpoint string) string {
	h := sha256.Sum256([]byte(endpoint))
	return hex.EncodeToString(h[:])
}
