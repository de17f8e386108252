package domain

// TriggerKind names a completed business action that may make badges eligible.
type TriggerKind string

const (
	TriggerTradeComplete       TriggerKind = "trade-complete"
	TriggerPostCreated         TriggerKind = "post-created"
	TriggerCommentCreated      TriggerKind = "comment-created"
	TriggerChatResponded       TriggerKind = "chat-responded"
	TriggerProductAdded        TriggerKind = "product-added"
	TriggerVerificationUpdated TriggerKind = "verification-updated"
	TriggerEventParticipated   TriggerKind = "event-participated"
)

// TriggerKinds lists every trigger kind external code may dispatch.
var TriggerKinds = []TriggerKind{
	TriggerTradeComplete,
	TriggerPostCreated,
	TriggerCommentCreated,
	TriggerChatResponded,
	TriggerProductAdded,
	TriggerVerificationUpdated,
	TriggerEventParticipated,
}

// DispatchRequest is the body of the internal dispatch endpoint.
type DispatchRequest struct {
	Trigger TriggerKind `json:"trigger" validate:"required"`
	UserID  string      `json:"user_id" validate:"required"`
}
