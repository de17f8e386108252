package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/go-badge-engine/internal/domain"
)

// StatsReader is the read-only aggregate source rule evaluators depend on.
type StatsReader interface {
	TradeStats(ctx context.Context, userID string) (*domain.TradeStats, error)
	PostStats(ctx context.Context, userID string) (*domain.PostStats, error)
	ChatStats(ctx context.Context, userID string) (*domain.ChatStats, error)
	UserProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	ProductStats(ctx context.Context, userID string) (*domain.ProductStats, error)
	EventStats(ctx context.Context, userID string) (*domain.EventStats, error)
}

// RuleEvaluator decides whether a user currently satisfies one badge's
// condition. Evaluators hold no state and may be called any number of times.
type RuleEvaluator interface {
	BadgeKey() string
	Evaluate(ctx context.Context, userID string) (bool, error)
}

// Thresholds.
const (
	powerSellerTrades     = 10
	powerSellerRating     = 4.0
	trustedTraderTrades   = 30
	trustedTraderRating   = 4.5
	explorerCategories    = 5
	explorerRuleReviews   = 10
	explorerPopularLikes  = 50
	communityStarLikes    = 100
	activeCommenterCount  = 50
	fastResponderMessages = 20
	fastResponderRate     = 90.0
	fastResponderMinutes  = 10.0
	shopOwnerListings     = 20
	veteranAccountAge     = 365 * 24 * time.Hour
)

type ruleFunc struct {
	key  string
	eval func(ctx context.Context, userID string) (bool, error)
}

func (r ruleFunc) BadgeKey() string { return r.key }

func (r ruleFunc) Evaluate(ctx context.Context, userID string) (bool, error) {
	ok, err := r.eval(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("evaluate %s: %w", r.key, err)
	}
	return ok, nil
}

// NewEvaluators returns one evaluator per catalog badge, keyed by badge key.
// now is used by the account-age rule.
func NewEvaluators(stats StatsReader, now func() time.Time) map[string]RuleEvaluator {
	if now == nil {
		now = time.Now
	}
	rules := []ruleFunc{
		{domain.BadgeFirstDeal, func(ctx context.Context, userID string) (bool, error) {
			t, err := stats.TradeStats(ctx, userID)
			if err != nil {
				return false, err
			}
			return t.CompletedCount == 1, nil
		}},
		{domain.BadgePowerSeller, func(ctx context.Context, userID string) (bool, error) {
			t, err := stats.TradeStats(ctx, userID)
			if err != nil {
				return false, err
			}
			return t.CompletedCount >= powerSellerTrades && t.AverageRating >= powerSellerRating, nil
		}},
		{domain.BadgeTrustedTrader, func(ctx context.Context, userID string) (bool, error) {
			t, err := stats.TradeStats(ctx, userID)
			if err != nil {
				return false, err
			}
			return t.CompletedCount >= trustedTraderTrades && t.AverageRating >= trustedTraderRating, nil
		}},
		{domain.BadgeExplorer, func(ctx context.Context, userID string) (bool, error) {
			t, err := stats.TradeStats(ctx, userID)
			if err != nil {
				return false, err
			}
			if len(t.CategoryRatings) < explorerCategories {
				return false, nil
			}
			p, err := stats.PostStats(ctx, userID)
			if err != nil {
				return false, err
			}
			return p.RuleReviewPosts >= explorerRuleReviews && p.TotalLikes >= explorerPopularLikes, nil
		}},
		{domain.BadgeFirstPost, func(ctx context.Context, userID string) (bool, error) {
			p, err := stats.PostStats(ctx, userID)
			if err != nil {
				return false, err
			}
			return p.PostCount == 1, nil
		}},
		{domain.BadgeCommunityStar, func(ctx context.Context, userID string) (bool, error) {
			p, err := stats.PostStats(ctx, userID)
			if err != nil {
				return false, err
			}
			return p.TotalLikes >= communityStarLikes, nil
		}},
		{domain.BadgeActiveCommenter, func(ctx context.Context, userID string) (bool, error) {
			p, err := stats.PostStats(ctx, userID)
			if err != nil {
				return false, err
			}
			return p.TotalComments >= activeCommenterCount, nil
		}},
		{domain.BadgeFastResponder, func(ctx context.Context, userID string) (bool, error) {
			c, err := stats.ChatStats(ctx, userID)
			if err != nil {
				return false, err
			}
			return c.TotalMessages >= fastResponderMessages &&
				c.ResponseRatePercent >= fastResponderRate &&
				c.AverageResponseMinutes <= fastResponderMinutes, nil
		}},
		{domain.BadgeFirstListing, func(ctx context.Context, userID string) (bool, error) {
			p, err := stats.ProductStats(ctx, userID)
			if err != nil {
				return false, err
			}
			return p.ListedCount == 1, nil
		}},
		{domain.BadgeShopOwner, func(ctx context.Context, userID string) (bool, error) {
			p, err := stats.ProductStats(ctx, userID)
			if err != nil {
				return false, err
			}
			return p.ListedCount >= shopOwnerListings, nil
		}},
		{domain.BadgeVerifiedMember, func(ctx context.Context, userID string) (bool, error) {
			p, err := stats.UserProfile(ctx, userID)
			if err != nil {
				return false, err
			}
			return p.Verified, nil
		}},
		{domain.BadgeVeteran, func(ctx context.Context, userID string) (bool, error) {
			p, err := stats.UserProfile(ctx, userID)
			if err != nil {
				return false, err
			}
			if now().Sub(p.CreatedAt) < veteranAccountAge {
				return false, nil
			}
			t, err := stats.TradeStats(ctx, userID)
			if err != nil {
				return false, err
			}
			return t.CompletedCount >= 1, nil
		}},
		{domain.BadgeEventParticipant, func(ctx context.Context, userID string) (bool, error) {
			e, err := stats.EventStats(ctx, userID)
			if err != nil {
				return false, err
			}
			return e.ParticipatedCount >= 1, nil
		}},
	}

	out := make(map[string]RuleEvaluator, len(rules))
	for _, r := range rules {
		out[r.key] = r
	}
	return out
}
