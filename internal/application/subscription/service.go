package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/go-badge-engine/internal/domain"
)

// Store is the push subscription persistence the service needs.
type Store interface {
	Upsert(ctx context.Context, s *domain.PushSubscription) (*domain.PushSubscription, error)
	Get(ctx context.Context, subscriptionID string) (*domain.PushSubscription, error)
	ListActiveByUser(ctx context.Context, userID string) ([]domain.PushSubscription, error)
	Deactivate(ctx context.Context, subscriptionID string) error
}

type Service interface {
	Subscribe(ctx context.Context, userID string, req domain.SubscribeRequest) (*domain.PushSubscription, error)
	Unsubscribe(ctx context.Context, subscriptionID, userID string) error
	List(ctx context.Context, userID string) ([]domain.PushSubscription, error)
}

type service struct {
	repo Store
	now  func() time.Time
}

func NewService(repo Store) Service {
	return &service{repo: repo, now: time.Now}
}

// Subscribe registers a browser endpoint for userID. The row is keyed by the
// endpoint, so a known endpoint is reactivated with fresh keys and the new
// owner; a device can change hands between accounts.
func (s *service) Subscribe(ctx context.Context, userID string, req domain.SubscribeRequest) (*domain.PushSubscription, error) {
	now := s.now().UTC()
	sub, err := s.repo.Upsert(ctx, &domain.PushSubscription{
		SubscriptionID: domain.SubscriptionIDFor(req.Endpoint),
		UserID:         userID,
		Endpoint:       req.Endpoint,
		P256dh:         req.Keys.P256dh,
		Auth:           req.Keys.Auth,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}
	return sub, nil
}

func (s *service) Unsubscribe(ctx context.Context, subscriptionID, userID string) error {
	sub, err := s.repo.Get(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.UserID != userID {
		return fmt.Errorf("forbidden: %w", domain.ErrForbidden)
	}
	return s.repo.Deactivate(ctx, subscriptionID)
}

func (s *service) List(ctx context.Context, userID string) ([]domain.PushSubscription, error) {
	return s.repo.ListActiveByUser(ctx, userID)
}
