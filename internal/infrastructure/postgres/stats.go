package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-badge-engine/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository answers the aggregate questions badge rules ask about a
// user. It runs read-only queries against tables owned by the marketplace.
type StatsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) TradeStats(ctx context.Context, userID string) (*domain.TradeStats, error) {
	const totals = `
		SELECT
			(SELECT COUNT(*) FROM trades
			 WHERE status = 'COMPLETED' AND (seller_id = $1 OR buyer_id = $1)),
			(SELECT COALESCE(AVG(rating), 0)::float8 FROM reviews WHERE reviewee_id = $1)
	`
	stats := &domain.TradeStats{CategoryRatings: map[string]float64{}}
	if err := r.db.QueryRow(ctx, totals, userID).Scan(&stats.CompletedCount, &stats.AverageRating); err != nil {
		return nil, fmt.Errorf("trade totals: %w", err)
	}

	const categories = `
		SELECT t.category, COALESCE(AVG(rv.rating), 0)::float8
		FROM trades t
		LEFT JOIN reviews rv ON rv.trade_id = t.id AND rv.reviewee_id = $1
		WHERE t.status = 'COMPLETED' AND (t.seller_id = $1 OR t.buyer_id = $1)
		GROUP BY t.category
	`
	rows, err := r.db.Query(ctx, categories, userID)
	if err != nil {
		return nil, fmt.Errorf("trade categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var rating float64
		if err := rows.Scan(&category, &rating); err != nil {
			return nil, err
		}
		stats.CategoryRatings[category] = rating
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trade categories: %w", err)
	}
	return stats, nil
}

func (r *StatsRepository) PostStats(ctx context.Context, userID string) (*domain.PostStats, error) {
	const query = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE board IN ('RULES', 'REVIEW')),
			COALESCE(SUM(like_count), 0)::int8,
			(SELECT COUNT(*) FROM comments WHERE author_id = $1 AND deleted_at IS NULL),
			COALESCE(MAX(created_at), 'epoch'::timestamptz)
		FROM posts
		WHERE author_id = $1 AND deleted_at IS NULL
	`
	var s domain.PostStats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.PostCount,
		&s.RuleReviewPosts,
		&s.TotalLikes,
		&s.TotalComments,
		&s.RecentActivity,
	)
	if err != nil {
		return nil, fmt.Errorf("post stats: %w", err)
	}
	return &s, nil
}

// ChatStats measures how often and how fast the user answers messages sent
// to them. A message counts as answered when the user writes in the same
// room afterwards.
func (r *StatsRepository) ChatStats(ctx context.Context, userID string) (*domain.ChatStats, error) {
	const query = `
		WITH incoming AS (
			SELECT m.created_at,
				(SELECT MIN(rp.created_at) FROM chat_messages rp
				 WHERE rp.room_id = m.room_id AND rp.sender_id = $1 AND rp.created_at > m.created_at) AS replied_at
			FROM chat_messages m
			JOIN chat_participants p ON p.room_id = m.room_id AND p.user_id = $1
			WHERE m.sender_id <> $1
		)
		SELECT
			(SELECT COUNT(*) FROM chat_messages WHERE sender_id = $1),
			COUNT(*),
			COUNT(replied_at),
			COALESCE(AVG(EXTRACT(EPOCH FROM (replied_at - created_at)) / 60)
				FILTER (WHERE replied_at IS NOT NULL), 0)::float8
		FROM incoming
	`
	var (
		s                 domain.ChatStats
		incoming, replied int
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(&s.TotalMessages, &incoming, &replied, &s.AverageResponseMinutes)
	if err != nil {
		return nil, fmt.Errorf("chat stats: %w", err)
	}
	s.ResponseRatePercent = responseRate(incoming, replied)
	return &s, nil
}

func (r *StatsRepository) UserProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	const query = `SELECT created_at, verified_at IS NOT NULL FROM users WHERE id = $1`
	var p domain.UserProfile
	if err := r.db.QueryRow(ctx, query, userID).Scan(&p.CreatedAt, &p.Verified); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("user profile: %w", err)
	}
	return &p, nil
}

func (r *StatsRepository) ProductStats(ctx context.Context, userID string) (*domain.ProductStats, error) {
	const query = `SELECT COUNT(*) FROM products WHERE seller_id = $1 AND deleted_at IS NULL`
	var s domain.ProductStats
	if err := r.db.QueryRow(ctx, query, userID).Scan(&s.ListedCount); err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}
	return &s, nil
}

func (r *StatsRepository) EventStats(ctx context.Context, userID string) (*domain.EventStats, error) {
	const query = `SELECT COUNT(DISTINCT event_id) FROM event_participations WHERE user_id = $1`
	var s domain.EventStats
	if err := r.db.QueryRow(ctx, query, userID).Scan(&s.ParticipatedCount); err != nil {
		return nil, fmt.Errorf("event stats: %w", err)
	}
	return &s, nil
}

func responseRate(incoming, replied int) float64 {
	if incoming == 0 {
		return 0
	}
	return float64(replied) * 100 / float64(incoming)
}
