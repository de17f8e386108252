package webpush

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/go-badge-engine/internal/domain"
)

// Options configures VAPID authentication for the push service.
type Options struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
	TTLSeconds      int
	HTTPClient      *http.Client
}

// Sender delivers encrypted Web Push messages.
type Sender struct {
	opts webpush.Options
}

func NewSender(o Options) *Sender {
	opts := webpush.Options{
		Subscriber:      strings.TrimPrefix(o.Subscriber, "mailto:"), // the library adds the scheme
		VAPIDPublicKey:  o.VAPIDPublicKey,
		VAPIDPrivateKey: o.VAPIDPrivateKey,
		TTL:             o.TTLSeconds,
		Urgency:         webpush.UrgencyNormal,
	}
	if o.HTTPClient != nil {
		opts.HTTPClient = o.HTTPClient
	}
	return &Sender{opts: opts}
}

// Send pushes payload to one subscription. 404 and 410 from the push service
// mean the endpoint is gone for good and are reported as
// domain.ErrSubscriptionGone; every other failure is transient.
func (s *Sender) Send(ctx context.Context, sub domain.PushSubscription, payload []byte) error {
	opts := s.opts
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &opts)
	if err != nil {
		return fmt.Errorf("web push send: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return fmt.Errorf("push service returned %d: %w", resp.StatusCode, domain.ErrSubscriptionGone)
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}
}
