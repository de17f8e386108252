package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-badge-engine/internal/domain"
)

// UserBadgeRepo stores awarded badges.
// PK: user_id, SK: badge_key
type UserBadgeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserBadgeRepo(client *dynamodb.Client, tableName string) *UserBadgeRepo {
	return &UserBadgeRepo{client: client, tableName: tableName}
}

// Insert writes ub only if the (user_id, badge_key) pair does not exist yet.
// The existence check and the write are one conditional PutItem; a lost race
// returns domain.ErrConflict.
func (r *UserBadgeRepo) Insert(ctx context.Context, ub *domain.UserBadge) error {
	item, err := attributevalue.MarshalMap(ub)
	if err != nil {
		return fmt.Errorf("marshal user badge: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#uid)"),
		ExpressionAttributeNames: map[string]string{
			"#uid": fieldUserID,
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("user badge %s/%s: %w", ub.UserID, ub.BadgeKey, domain.ErrConflict)
		}
		return fmt.Errorf("put user badge: %w", err)
	}
	return nil
}

func (r *UserBadgeRepo) ListByUser(ctx context.Context, userID string) ([]domain.UserBadge, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query user badges: %w", err)
	}
	var badges []domain.UserBadge
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &badges); err != nil {
		return nil, err
	}
	return badges, nil
}
