package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/go-badge-engine/internal/domain"
)

const eventBadgeAwarded = "badge.awarded"

// publishAPI is the subset of *sns.Client the publisher calls.
type publishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// EventPublisher publishes BadgeAwarded events to an SNS topic so analytics
// and profile caches can react to new awards.
type EventPublisher struct {
	client   publishAPI
	topicARN string
}

func NewEventPublisher(cfg aws.Config, topicARN string) *EventPublisher {
	return &EventPublisher{client: sns.NewFromConfig(cfg), topicARN: topicARN}
}

func (p *EventPublisher) PublishBadgeAwarded(ctx context.Context, ev domain.BadgeAwarded) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal badge event: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(eventBadgeAwarded)},
			"badge_key":  {DataType: aws.String("String"), StringValue: aws.String(ev.BadgeKey)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish badge event: %w", err)
	}
	return nil
}
