package achievement

import (
	"context"
	"sort"
	"time"

	"github.com/go-badge-engine/internal/domain"
)

// CatalogLister lists the seeded badge catalog.
type CatalogLister interface {
	List(ctx context.Context) ([]domain.Badge, error)
}

// HoldingLister lists the badges a user holds.
type HoldingLister interface {
	ListByUser(ctx context.Context, userID string) ([]domain.UserBadge, error)
}

// HeldBadge is a catalog entry together with the time it was awarded.
type HeldBadge struct {
	domain.Badge
	AwardedAt time.Time `json:"awarded_at"`
}

// Query serves the read side of the badge API.
type Query struct {
	catalog  CatalogLister
	holdings HoldingLister
}

func NewQuery(catalog CatalogLister, holdings HoldingLister) *Query {
	return &Query{catalog: catalog, holdings: holdings}
}

// Catalog returns every badge ordered by key.
func (q *Query) Catalog(ctx context.Context) ([]domain.Badge, error) {
	badges, err := q.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(badges, func(i, j int) bool { return badges[i].Key < badges[j].Key })
	return badges, nil
}

// Held returns the badges userID holds, oldest award first. Holdings whose
// key is missing from the catalog are skipped.
func (q *Query) Held(ctx context.Context, userID string) ([]HeldBadge, error) {
	holdings, err := q.holdings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]HeldBadge, 0, len(holdings))
	for _, h := range holdings {
		b, ok := domain.CatalogBadge(h.BadgeKey)
		if !ok {
			continue
		}
		out = append(out, HeldBadge{Badge: b, AwardedAt: h.AwardedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AwardedAt.Before(out[j].AwardedAt) })
	return out, nil
}
