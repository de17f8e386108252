package achievement

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-badge-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

// --- fakes ---

type fakeStats struct {
	trade   domain.TradeStats
	post    domain.PostStats
	chat    domain.ChatStats
	profile domain.UserProfile
	product domain.ProductStats
	event   domain.EventStats
	err     error
	calls   atomic.Int32
}

func (f *fakeStats) TradeStats(context.Context, string) (*domain.TradeStats, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	t := f.trade
	return &t, nil
}
func (f *fakeStats) PostStats(context.Context, string) (*domain.PostStats, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	p := f.post
	return &p, nil
}
func (f *fakeStats) ChatStats(context.Context, string) (*domain.ChatStats, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	c := f.chat
	return &c, nil
}
func (f *fakeStats) UserProfile(context.Context, string) (*domain.UserProfile, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	p := f.profile
	return &p, nil
}
func (f *fakeStats) ProductStats(context.Context, string) (*domain.ProductStats, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	p := f.product
	return &p, nil
}
func (f *fakeStats) EventStats(context.Context, string) (*domain.EventStats, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	e := f.event
	return &e, nil
}

type catalogStore struct{}

func (catalogStore) Get(_ context.Context, key string) (*domain.Badge, error) {
	b, ok := domain.CatalogBadge(key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

// memUserBadges behaves like the conditional put: the first insert of a
// (user, badge) pair wins, every later one conflicts.
type memUserBadges struct {
	mu   sync.Mutex
	rows map[string]domain.UserBadge
	err  error
}

func newMemUserBadges() *memUserBadges {
	return &memUserBadges{rows: map[string]domain.UserBadge{}}
}

func (m *memUserBadges) Insert(_ context.Context, ub *domain.UserBadge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	k := ub.UserID + "#" + ub.BadgeKey
	if _, ok := m.rows[k]; ok {
		return domain.ErrConflict
	}
	m.rows[k] = *ub
	return nil
}

func (m *memUserBadges) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishBadgeAwarded(ctx context.Context, ev domain.BadgeAwarded) error {
	return m.Called(ctx, ev).Error(0)
}

type recordingNotifications struct {
	mu      sync.Mutex
	created []domain.Notification
	err     error
}

func (r *recordingNotifications) Create(ctx context.Context, userID string, badge domain.Badge) (*domain.Notification, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := domain.Notification{
		NotificationID: "n-" + badge.Key,
		UserID:         userID,
		Title:          badge.DisplayName,
		Type:           domain.NotificationBadge,
		CreatedAt:      time.Now(),
	}
	r.created = append(r.created, n)
	return &n, nil
}

func (r *recordingNotifications) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.created...)
}

type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []string
	ctxErrs   []error
	delay     time.Duration
}

func (r *recordingDeliverer) Deliver(ctx context.Context, n *domain.Notification) domain.DeliveryReport {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, n.NotificationID)
	r.ctxErrs = append(r.ctxErrs, ctx.Err())
	return domain.DeliveryReport{NotificationID: n.NotificationID, MarkedSent: true}
}

func (r *recordingDeliverer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delivered)
}

// stubEvaluator returns a fixed answer.
type stubEvaluator struct {
	key      string
	eligible bool
	err      error
}

func (s stubEvaluator) BadgeKey() string { return s.key }
func (s stubEvaluator) Evaluate(context.Context, string) (bool, error) {
	return s.eligible, s.err
}

var errStatsDown = errors.New("stats unavailable")
