package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-badge-engine/internal/application/achievement"
	"github.com/go-badge-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBadgeQuery struct{ mock.Mock }

func (m *mockBadgeQuery) Catalog(ctx context.Context) ([]domain.Badge, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]domain.Badge)
	return b, args.Error(1)
}

func (m *mockBadgeQuery) Held(ctx context.Context, userID string) ([]achievement.HeldBadge, error) {
	args := m.Called(ctx, userID)
	h, _ := args.Get(0).([]achievement.HeldBadge)
	return h, args.Error(1)
}

func TestBadges_List(t *testing.T) {
	q := &mockBadgeQuery{}
	q.On("Catalog", mock.Anything).Return(domain.BadgeCatalog, nil)

	rr := httptest.NewRecorder()
	NewBadgeHandler(q).List(rr, httptest.NewRequest(http.MethodGet, "/v1/badges", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Data  []domain.Badge `json:"data"`
		Count int            `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, len(domain.BadgeCatalog), resp.Count)
	assert.Equal(t, domain.BadgeFirstDeal, resp.Data[0].Key)
}

func TestBadges_ListHeld(t *testing.T) {
	badge, _ := domain.CatalogBadge(domain.BadgeFirstDeal)
	awardedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	q := &mockBadgeQuery{}
	q.On("Held", mock.Anything, "u7").Return([]achievement.HeldBadge{{Badge: badge, AwardedAt: awardedAt}}, nil)

	rr := httptest.NewRecorder()
	NewBadgeHandler(q).ListHeld(rr, withChiID(httptest.NewRequest(http.MethodGet, "/v1/users/u7/badges", nil), "u7"))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, domain.BadgeFirstDeal, resp.Data[0]["key"])
	assert.Equal(t, "첫 거래", resp.Data[0]["display_name"])
	assert.Equal(t, "2026-01-02T03:04:05Z", resp.Data[0]["awarded_at"])
	q.AssertExpectations(t)
}
