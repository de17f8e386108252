package achievement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-badge-engine/internal/domain"
	"go.uber.org/zap"
)

// BadgeStore resolves catalog entries.
type BadgeStore interface {
	Get(ctx context.Context, key string) (*domain.Badge, error)
}

// UserBadgeStore persists awards. Insert must return domain.ErrConflict when
// the (user, badge) pair already exists.
type UserBadgeStore interface {
	Insert(ctx context.Context, ub *domain.UserBadge) error
}

// EventPublisher announces first-time awards to other services.
type EventPublisher interface {
	PublishBadgeAwarded(ctx context.Context, ev domain.BadgeAwarded) error
}

// NotificationCreator persists the notification for a new award.
type NotificationCreator interface {
	Create(ctx context.Context, userID string, badge domain.Badge) (*domain.Notification, error)
}

// Deliverer fans a stored notification out to the user's channels.
type Deliverer interface {
	Deliver(ctx context.Context, n *domain.Notification) domain.DeliveryReport
}

// NopEventPublisher drops events. Used when no topic is configured.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishBadgeAwarded(context.Context, domain.BadgeAwarded) error { return nil }

// CoordinatorDeps groups the Coordinator's collaborators.
type CoordinatorDeps struct {
	Badges          BadgeStore
	UserBadges      UserBadgeStore
	Events          EventPublisher
	Notifications   NotificationCreator
	Delivery        Deliverer
	DeliveryTimeout time.Duration
	Logger          *zap.Logger
	Now             func() time.Time
}

// Coordinator performs the award: at most one UserBadge per (user, badge),
// and the side effects run only for the call that created it.
type Coordinator struct {
	badges          BadgeStore
	userBadges      UserBadgeStore
	events          EventPublisher
	notifications   NotificationCreator
	delivery        Deliverer
	deliveryTimeout time.Duration
	logger          *zap.Logger
	now             func() time.Time

	inflight sync.WaitGroup
}

func NewCoordinator(d CoordinatorDeps) *Coordinator {
	c := &Coordinator{
		badges:          d.Badges,
		userBadges:      d.UserBadges,
		events:          d.Events,
		notifications:   d.Notifications,
		delivery:        d.Delivery,
		deliveryTimeout: d.DeliveryTimeout,
		logger:          d.Logger,
		now:             d.Now,
	}
	if c.events == nil {
		c.events = NopEventPublisher{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.deliveryTimeout <= 0 {
		c.deliveryTimeout = 30 * time.Second
	}
	return c
}

// Award grants badgeKey to userID. It returns false with a nil error when the
// user already holds the badge.
func (c *Coordinator) Award(ctx context.Context, userID, badgeKey string) (bool, error) {
	badge, err := c.badges.Get(ctx, badgeKey)
	if err != nil {
		return false, fmt.Errorf("resolve badge %s: %w", badgeKey, err)
	}

	awardedAt := c.now().UTC()
	err = c.userBadges.Insert(ctx, &domain.UserBadge{UserID: userID, BadgeKey: badgeKey, AwardedAt: awardedAt})
	if errors.Is(err, domain.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("award %s to %s: %w", badgeKey, userID, err)
	}

	log := c.logger.With(zap.String("user_id", userID), zap.String("badge_key", badgeKey))
	log.Info("badge awarded")

	// The badge is stored; what follows must not be cut short by the caller.
	detached := context.WithoutCancel(ctx)

	if err := c.events.PublishBadgeAwarded(detached, domain.BadgeAwarded{
		UserID: userID, BadgeKey: badgeKey, AwardedAt: awardedAt,
	}); err != nil {
		log.Warn("publish badge awarded event failed", zap.Error(err))
	}

	n, err := c.notifications.Create(detached, userID, *badge)
	if err != nil {
		log.Error("create badge notification failed", zap.Error(err))
		return true, nil
	}

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		dctx, cancel := context.WithTimeout(detached, c.deliveryTimeout)
		defer cancel()
		report := c.delivery.Deliver(dctx, n)
		log.Debug("badge notification delivered",
			zap.String("notification_id", n.NotificationID),
			zap.Int("delivered", report.Count(domain.DeliveryDelivered)),
			zap.Int("transient", report.Count(domain.DeliveryTransient)),
			zap.Int("gone", report.Count(domain.DeliveryGone)),
			zap.Bool("marked_sent", report.MarkedSent))
	}()
	return true, nil
}

// Wait blocks until every delivery started by Award has finished.
func (c *Coordinator) Wait() {
	c.inflight.Wait()
}
