package achievement

import (
	"context"
	"testing"
	"time"

	"github.com/go-badge-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCatalog []domain.Badge

func (s staticCatalog) List(context.Context) ([]domain.Badge, error) {
	return append([]domain.Badge(nil), s...), nil
}

type staticHoldings []domain.UserBadge

func (s staticHoldings) ListByUser(context.Context, string) ([]domain.UserBadge, error) {
	return s, nil
}

func TestQuery_Catalog(t *testing.T) {
	q := NewQuery(staticCatalog(domain.BadgeCatalog), staticHoldings(nil))
	badges, err := q.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, badges, len(domain.BadgeCatalog))
	for i := 1; i < len(badges); i++ {
		assert.Less(t, badges[i-1].Key, badges[i].Key)
	}
}

func TestQuery_Held(t *testing.T) {
	holdings := staticHoldings{
		{UserID: "u1", BadgeKey: domain.BadgeFirstPost, AwardedAt: fixedNow},
		{UserID: "u1", BadgeKey: "RETIRED_BADGE", AwardedAt: fixedNow},
		{UserID: "u1", BadgeKey: domain.BadgeFirstDeal, AwardedAt: fixedNow.Add(-time.Hour)},
	}
	held, err := NewQuery(staticCatalog(nil), holdings).Held(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, held, 2)
	assert.Equal(t, domain.BadgeFirstDeal, held[0].Key)
	assert.Equal(t, "첫 거래", held[0].DisplayName)
	assert.Equal(t, domain.BadgeFirstPost, held[1].Key)
}
