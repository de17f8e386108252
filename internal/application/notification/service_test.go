package notification

import (
	"context"
	"testing"

	"github.com/go-badge-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	ns, _ := args.Get(0).([]domain.Notification)
	return ns, args.Error(1)
}
func (m *mockStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestMarkAsRead_Owner(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "n1").Return(&domain.Notification{NotificationID: "n1", UserID: "u1"}, nil)
	store.On("MarkAsRead", mock.Anything, "n1").Return(&domain.Notification{NotificationID: "n1", UserID: "u1", IsRead: true}, nil)

	n, err := NewService(store).MarkAsRead(context.Background(), "n1", "u1")
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	store.AssertExpectations(t)
}

func TestMarkAsRead_OtherUser(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "n1").Return(&domain.Notification{NotificationID: "n1", UserID: "u1"}, nil)

	_, err := NewService(store).MarkAsRead(context.Background(), "n1", "u2")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	store.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestMarkAsRead_AlreadyRead(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "n1").Return(&domain.Notification{NotificationID: "n1", UserID: "u1", IsRead: true}, nil)

	n, err := NewService(store).MarkAsRead(context.Background(), "n1", "u1")
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	store.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestMarkAsRead_NotFound(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	_, err := NewService(store).MarkAsRead(context.Background(), "nope", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
