package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-badge-engine/internal/domain"
)

// BadgeRepo provides typed DynamoDB operations for the badge catalog table.
type BadgeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBadgeRepo(client *dynamodb.Client, tableName string) *BadgeRepo {
	return &BadgeRepo{client: client, tableName: tableName}
}

// Seed inserts catalog entries that are not present yet. Existing rows are
// left untouched, so edits made by migrations survive restarts.
func (r *BadgeRepo) Seed(ctx context.Context, badges []domain.Badge) (int, error) {
	inserted := 0
	for i := range badges {
		item, err := attributevalue.MarshalMap(badges[i])
		if err != nil {
			return inserted, fmt.Errorf("marshal badge %s: %w", badges[i].Key, err)
		}
		_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:           aws.String(r.tableName),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(#k)"),
			ExpressionAttributeNames: map[string]string{
				"#k": fieldBadgeKey,
			},
		})
		if err != nil {
			if isConditionFailed(err) {
				continue
			}
			return inserted, fmt.Errorf("seed badge %s: %w", badges[i].Key, err)
		}
		inserted++
	}
	return inserted, nil
}

func (r *BadgeRepo) Get(ctx context.Context, key string) (*domain.Badge, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldBadgeKey, key),
	})
	if err != nil {
		return nil, fmt.Errorf("get badge %s: %w", key, err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("badge %s: %w", key, domain.ErrNotFound)
	}
	var b domain.Badge
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// List scans the catalog. The table holds a few dozen rows at most.
func (r *BadgeRepo) List(ctx context.Context) ([]domain.Badge, error) {
	var badges []domain.Badge
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan badges: %w", err)
		}
		var page []domain.Badge
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		badges = append(badges, page...)
	}
	return badges, nil
}
