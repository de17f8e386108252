package domain

import "time"

// Badge is a static catalog entry. It is created by the catalog seed and
// never modified at runtime.
type Badge struct {
	Key         string `json:"key" dynamodbav:"badge_key"`
	DisplayName string `json:"display_name" dynamodbav:"display_name"`
	Icon        string `json:"icon" dynamodbav:"icon"`
	Description string `json:"description" dynamodbav:"description"`
}

// UserBadge records that a user holds a badge.
// PK: user_id, SK: badge_key. The composite key is the uniqueness constraint.
type UserBadge struct {
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	BadgeKey  string    `json:"badge_key" dynamodbav:"badge_key"`
	AwardedAt time.Time `json:"awarded_at" dynamodbav:"awarded_at"`
}

// BadgeAwarded is emitted once per first-time award.
type BadgeAwarded struct {
	UserID    string    `json:"user_id"`
	BadgeKey  string    `json:"badge_key"`
	AwardedAt time.Time `json:"awarded_at"`
}

// Badge keys.
const (
	BadgeFirstDeal        = "FIRST_DEAL"
	BadgePowerSeller      = "POWER_SELLER"
	BadgeTrustedTrader    = "TRUSTED_TRADER"
	BadgeExplorer         = "EXPLORER"
	BadgeFirstPost        = "FIRST_POST"
	BadgeCommunityStar    = "COMMUNITY_STAR"
	BadgeActiveCommenter  = "ACTIVE_COMMENTER"
	BadgeFastResponder    = "FAST_RESPONDER"
	BadgeFirstListing     = "FIRST_LISTING"
	BadgeShopOwner        = "SHOP_OWNER"
	BadgeVerifiedMember   = "VERIFIED_MEMBER"
	BadgeVeteran          = "VETERAN"
	BadgeEventParticipant = "EVENT_PARTICIPANT"
)

// BadgeCatalog is the seed for the badges table.
var BadgeCatalog = []Badge{
	{Key: BadgeFirstDeal, DisplayName: "첫 거래", Icon: "/static/badges/first-deal.png", Description: "첫 번째 거래를 완료했어요."},
	{Key: BadgePowerSeller, DisplayName: "파워 셀러", Icon: "/static/badges/power-seller.png", Description: "거래 10회 이상, 평균 평점 4.0 이상을 달성했어요."},
	{Key: BadgeTrustedTrader, DisplayName: "신뢰의 거래왕", Icon: "/static/badges/trusted-trader.png", Description: "거래 30회 이상, 평균 평점 4.5 이상을 달성했어요."},
	{Key: BadgeExplorer, DisplayName: "보드게임 탐험가", Icon: "/static/badges/explorer.png", Description: "5개 이상의 장르를 거래하고 룰/리뷰 글을 10개 이상 작성했어요."},
	{Key: BadgeFirstPost, DisplayName: "첫 게시글", Icon: "/static/badges/first-post.png", Description: "커뮤니티에 첫 게시글을 작성했어요."},
	{Key: BadgeCommunityStar, DisplayName: "커뮤니티 스타", Icon: "/static/badges/community-star.png", Description: "게시글이 좋아요 100개 이상을 받았어요."},
	{Key: BadgeActiveCommenter, DisplayName: "열혈 댓글러", Icon: "/static/badges/active-commenter.png", Description: "댓글을 50개 이상 작성했어요."},
	{Key: BadgeFastResponder, DisplayName: "빠른 응답왕", Icon: "/static/badges/fast-responder.png", Description: "채팅 응답률 90% 이상, 평균 응답 시간 10분 이내를 달성했어요."},
	{Key: BadgeFirstListing, DisplayName: "첫 상품 등록", Icon: "/static/badges/first-listing.png", Description: "첫 번째 상품을 등록했어요."},
	{Key: BadgeShopOwner, DisplayName: "보드게임 상점", Icon: "/static/badges/shop-owner.png", Description: "상품을 20개 이상 등록했어요."},
	{Key: BadgeVerifiedMember, DisplayName: "인증 회원", Icon: "/static/badges/verified.png", Description: "본인 인증을 완료했어요."},
	{Key: BadgeVeteran, DisplayName: "오랜 친구", Icon: "/static/badges/veteran.png", Description: "가입 1주년을 맞이했어요."},
	{Key: BadgeEventParticipant, DisplayName: "이벤트 참여자", Icon: "/static/badges/event.png", Description: "프로모션 이벤트에 참여했어요."},
}

// CatalogBadge returns the catalog entry for key.
func CatalogBadge(key string) (Badge, bool) {
	for _, b := range BadgeCatalog {
		if b.Key == key {
			return b, true
		}
	}
	return Badge{}, false
}
