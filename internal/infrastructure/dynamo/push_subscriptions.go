package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-badge-engine/internal/domain"
)

// PushSubscriptionRepo provides typed DynamoDB operations for the push_subscriptions table.
type PushSubscriptionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPushSubscriptionRepo(client *dynamodb.Client, tableName string) *PushSubscriptionRepo {
	return &PushSubscriptionRepo{client: client, tableName: tableName}
}

// Upsert writes s under its subscription id in one UpdateItem. An existing
// row keeps its created_at and is reactivated with the new owner and keys,
// so repeated or concurrent subscribes for one endpoint converge on one row.
func (r *PushSubscriptionRepo) Upsert(ctx context.Context, s *domain.PushSubscription) (*domain.PushSubscription, error) {
	now, err := attributevalue.Marshal(s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("marshal timestamp: %w", err)
	}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey(fieldSubscriptionID, s.SubscriptionID),
		UpdateExpression: aws.String("SET #uid = :uid, #ep = :ep, #p256 = :p256, #auth = :auth, #act = :t, #upd = :now, #cre = if_not_exists(#cre, :now)"),
		ExpressionAttributeNames: map[string]string{
			"#uid":  fieldUserID,
			"#ep":   fieldEndpoint,
			"#p256": fieldP256dh,
			"#auth": fieldAuth,
			"#act":  fieldIsActive,
			"#upd":  fieldUpdatedAt,
			"#cre":  fieldCreatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid":  &types.AttributeValueMemberS{Value: s.UserID},
			":ep":   &types.AttributeValueMemberS{Value: s.Endpoint},
			":p256": &types.AttributeValueMemberS{Value: s.P256dh},
			":auth": &types.AttributeValueMemberS{Value: s.Auth},
			":t":    &types.AttributeValueMemberBOOL{Value: true},
			":now":  now,
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert push subscription: %w", err)
	}
	var saved domain.PushSubscription
	if err := attributevalue.UnmarshalMap(out.Attributes, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *PushSubscriptionRepo) Get(ctx context.Context, subscriptionID string) (*domain.PushSubscription, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldSubscriptionID, subscriptionID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("push subscription not found: %w", domain.ErrNotFound)
	}
	var s domain.PushSubscription
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListActiveByUser returns every is_active=true subscription of the user.
func (r *PushSubscriptionRepo) ListActiveByUser(ctx context.Context, userID string) ([]domain.PushSubscription, error) {
	var subs []domain.PushSubscription
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexUser),
		KeyConditionExpression: aws.String("user_id = :uid"),
		FilterExpression:       aws.String("#act = :t"),
		ExpressionAttributeNames: map[string]string{
			"#act": fieldIsActive,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
			":t":   &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query push subscriptions: %w", err)
		}
		var page []domain.PushSubscription
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		subs = append(subs, page...)
	}
	return subs, nil
}

// Deactivate flips is_active to false. A missing row is not an error, so
// repeated calls for the same id are harmless.
func (r *PushSubscriptionRepo) Deactivate(ctx context.Context, subscriptionID string) error {
	err := r.update(ctx, subscriptionID, map[string]interface{}{fieldIsActive: false})
	if err != nil && isConditionFailed(err) {
		return nil
	}
	return err
}

func (r *PushSubscriptionRepo) update(ctx context.Context, subscriptionID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	ue.Names["#pk"] = fieldSubscriptionID
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldSubscriptionID, subscriptionID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		return fmt.Errorf("update push subscription %s: %w", subscriptionID, err)
	}
	return nil
}
