package domain

import "time"

// TradeStats aggregates a user's completed trades and the ratings received.
type TradeStats struct {
	CompletedCount  int
	AverageRating   float64
	CategoryRatings map[string]float64 // game category -> average rating
}

// PostStats aggregates a user's community activity.
type PostStats struct {
	PostCount       int
	RuleReviewPosts int // posts on the rules and review boards
	TotalLikes      int
	TotalComments   int // comments written by the user
	RecentActivity  time.Time
}

// ChatStats aggregates a user's chat responsiveness.
type ChatStats struct {
	TotalMessages          int
	ResponseRatePercent    float64
	AverageResponseMinutes float64
}

// UserProfile holds the account facts evaluators need.
type UserProfile struct {
	CreatedAt time.Time
	Verified  bool
}

// ProductStats aggregates a user's product listings.
type ProductStats struct {
	ListedCount int
}

// EventStats aggregates promotional event participation.
type EventStats struct {
	ParticipatedCount int
}
