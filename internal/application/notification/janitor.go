package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Deactivator switches a push subscription off. Deactivating a missing or
// already inactive subscription must succeed.
type Deactivator interface {
	Deactivate(ctx context.Context, subscriptionID string) error
}

// Janitor retires subscriptions the push service reported as gone.
type Janitor struct {
	store  Deactivator
	logger *zap.Logger
}

func NewJanitor(store Deactivator, logger *zap.Logger) *Janitor {
	return &Janitor{store: store, logger: logger}
}

func (j *Janitor) OnPermanentFailure(ctx context.Context, subscriptionID string) error {
	if err := j.store.Deactivate(ctx, subscriptionID); err != nil {
		return fmt.Errorf("deactivate subscription %s: %w", subscriptionID, err)
	}
	j.logger.Info("push subscription deactivated", zap.String("subscription_id", subscriptionID))
	return nil
}
