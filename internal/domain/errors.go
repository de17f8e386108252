package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrSubscriptionGone is returned by a push sender when the push service
	// reports that the endpoint will never accept messages again.
	ErrSubscriptionGone = errors.New("push subscription gone")
	// ErrUnknownTrigger is returned when a trigger kind has no dispatch entry.
	ErrUnknownTrigger = errors.New("unknown trigger kind")
)
