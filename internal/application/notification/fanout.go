package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-badge-engine/internal/domain"
	"github.com/go-badge-engine/internal/infrastructure/realtime"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// EventNotification is the realtime event type carrying a new notification.
const EventNotification = "notification"

// bookkeepingTimeout bounds the writes that follow the sends. They run on a
// context detached from the delivery budget, which slow endpoints may have
// used up.
const bookkeepingTimeout = 5 * time.Second

// Broadcaster pushes an event to a user's live connections.
type Broadcaster interface {
	Publish(ctx context.Context, userID string, event realtime.Event) error
}

// SubscriptionLister returns the subscriptions that should receive push.
type SubscriptionLister interface {
	ListActiveByUser(ctx context.Context, userID string) ([]domain.PushSubscription, error)
}

// PushSender delivers one payload to one subscription. It returns an error
// wrapping domain.ErrSubscriptionGone when the endpoint no longer exists.
type PushSender interface {
	Send(ctx context.Context, sub domain.PushSubscription, payload []byte) error
}

// SentMarker records that push delivery was attempted.
type SentMarker interface {
	MarkPushSent(ctx context.Context, notificationID string, sentAt time.Time) error
}

// GoneHandler is told about subscriptions that will never accept push again.
type GoneHandler interface {
	OnPermanentFailure(ctx context.Context, subscriptionID string) error
}

// FanoutDeps groups the Fanout's collaborators.
type FanoutDeps struct {
	Broadcaster   Broadcaster
	Subscriptions SubscriptionLister
	Sender        PushSender
	Marker        SentMarker
	Janitor       GoneHandler
	Workers       int
	SendTimeout   time.Duration
	Logger        *zap.Logger
	Now           func() time.Time
}

// Fanout delivers a stored notification over the realtime hub and web push.
type Fanout struct {
	hub         Broadcaster
	subs        SubscriptionLister
	sender      PushSender
	marker      SentMarker
	janitor     GoneHandler
	workers     int
	sendTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

func NewFanout(d FanoutDeps) *Fanout {
	f := &Fanout{
		hub:         d.Broadcaster,
		subs:        d.Subscriptions,
		sender:      d.Sender,
		marker:      d.Marker,
		janitor:     d.Janitor,
		workers:     d.Workers,
		sendTimeout: d.SendTimeout,
		logger:      d.Logger,
		now:         d.Now,
	}
	if f.workers <= 0 {
		f.workers = 1
	}
	if f.sendTimeout <= 0 {
		f.sendTimeout = 5 * time.Second
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// Deliver runs the broadcast and push legs concurrently and waits for both.
// Failures are reported, never returned: one subscriber cannot affect another.
func (f *Fanout) Deliver(ctx context.Context, n *domain.Notification) domain.DeliveryReport {
	report := domain.DeliveryReport{NotificationID: n.NotificationID}
	log := f.logger.With(zap.String("notification_id", n.NotificationID), zap.String("user_id", n.UserID))

	var (
		broadcastErr error
		pushErr      error
		outcomes     []domain.SubscriptionOutcome
		marked       bool
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		broadcastErr = f.broadcast(ctx, n)
		if broadcastErr != nil {
			log.Warn("realtime broadcast failed", zap.Error(broadcastErr))
		}
		return nil
	})
	// Without VAPID keys there is no push leg; the notification stays unsent.
	if f.sender != nil {
		g.Go(func() error {
			outcomes, marked, pushErr = f.push(ctx, n, log)
			if pushErr != nil {
				log.Error("push delivery not attempted", zap.Error(pushErr))
			}
			return nil
		})
	}
	_ = g.Wait()

	report.BroadcastErr = broadcastErr
	report.PushErr = pushErr
	report.Outcomes = outcomes
	report.MarkedSent = marked
	return report
}

func (f *Fanout) broadcast(ctx context.Context, n *domain.Notification) error {
	if f.hub == nil {
		return nil
	}
	return f.hub.Publish(ctx, n.UserID, realtime.Event{Type: EventNotification, Payload: n})
}

// push sends to every active subscription and then marks the notification as
// sent. Zero subscriptions still count as an attempt; a failed listing does not.
func (f *Fanout) push(ctx context.Context, n *domain.Notification, log *zap.Logger) ([]domain.SubscriptionOutcome, bool, error) {
	subs, err := f.subs.ListActiveByUser(ctx, n.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("list push subscriptions: %w", err)
	}
	payload, err := json.Marshal(n.Payload())
	if err != nil {
		return nil, false, fmt.Errorf("marshal push payload: %w", err)
	}

	outcomes := make([]domain.SubscriptionOutcome, len(subs))
	g := new(errgroup.Group)
	g.SetLimit(f.workers)
	for i, sub := range subs {
		i, sub := i, sub
		g.Go(func() error {
			outcomes[i] = f.sendOne(ctx, sub, payload, log)
			return nil
		})
	}
	_ = g.Wait()

	mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bookkeepingTimeout)
	defer cancel()
	if err := f.marker.MarkPushSent(mctx, n.NotificationID, f.now().UTC()); err != nil {
		log.Error("mark push sent failed", zap.Error(err))
		return outcomes, false, nil
	}
	return outcomes, true, nil
}

func (f *Fanout) sendOne(ctx context.Context, sub domain.PushSubscription, payload []byte, log *zap.Logger) domain.SubscriptionOutcome {
	sctx, cancel := context.WithTimeout(ctx, f.sendTimeout)
	defer cancel()

	out := domain.SubscriptionOutcome{SubscriptionID: sub.SubscriptionID}
	err := f.sender.Send(sctx, sub, payload)
	switch {
	case err == nil:
		out.Status = domain.DeliveryDelivered
	case errors.Is(err, domain.ErrSubscriptionGone):
		out.Status, out.Err = domain.DeliveryGone, err
		jctx, jcancel := context.WithTimeout(context.WithoutCancel(ctx), bookkeepingTimeout)
		defer jcancel()
		if jerr := f.janitor.OnPermanentFailure(jctx, sub.SubscriptionID); jerr != nil {
			log.Error("retire push subscription failed", zap.String("subscription_id", sub.SubscriptionID), zap.Error(jerr))
		}
	default:
		out.Status, out.Err = domain.DeliveryTransient, err
		log.Warn("push send failed", zap.String("subscription_id", sub.SubscriptionID), zap.Error(err))
	}
	return out
}
