package notification

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-badge-engine/internal/domain"
	"github.com/go-badge-engine/internal/pkg/id"
)

// Writer persists a new notification.
type Writer interface {
	Put(ctx context.Context, n *domain.Notification) error
}

// Factory builds and stores the notification for a newly awarded badge.
type Factory struct {
	store    Writer
	linkBase string
	now      func() time.Time
}

// NewFactory returns a Factory linking to <linkBase>/<userID>/badges.
func NewFactory(store Writer, linkBase string) *Factory {
	return &Factory{store: store, linkBase: strings.TrimRight(linkBase, "/"), now: time.Now}
}

func (f *Factory) Create(ctx context.Context, userID string, badge domain.Badge) (*domain.Notification, error) {
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         userID,
		Title:          fmt.Sprintf("새로운 배지를 획득했어요! [%s]", badge.DisplayName),
		Body:           fmt.Sprintf("'%s' 배지를 받았어요. %s", badge.DisplayName, badge.Description),
		Type:           domain.NotificationBadge,
		Link:           fmt.Sprintf("%s/%s/badges", f.linkBase, url.PathEscape(userID)),
		Image:          badge.Icon,
		IsPushSent:     false,
		IsRead:         false,
		CreatedAt:      f.now().UTC(),
	}
	if err := f.store.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("store badge notification: %w", err)
	}
	return n, nil
}
