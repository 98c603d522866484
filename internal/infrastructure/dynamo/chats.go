package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/anthonyadade/FakeStack/internal/domain"
)

// ChatRepo provides typed DynamoDB operations for the chats table.
type ChatRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewChatRepo(client *dynamodb.Client, tableName string) *ChatRepo {
	return &ChatRepo{client: client, tableName: tableName}
}

func (r *ChatRepo) Put(ctx context.Context, c *domain.Chat) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal chat: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ChatRepo) Get(ctx context.Context, chatID string) (*domain.Chat, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("chat_id", chatID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	var c domain.Chat
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// PushSubscription prepends a subscription id to the chat's subscriptions
// list. Targeting an absent chat reports domain.ErrNotFound.
func (r *ChatRepo) PushSubscription(ctx context.Context, chatID, subscriptionID string) (*domain.Chat, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("chat_id", chatID),
		UpdateExpression:    aws.String("SET subscriptions = list_append(:new, if_not_exists(subscriptions, :empty))"),
		ConditionExpression: aws.String("attribute_exists(chat_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new": &types.AttributeValueMemberL{
				Value: []types.AttributeValue{&types.AttributeValueMemberS{Value: subscriptionID}},
			},
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
		}
		return nil, err
	}
	var c domain.Chat
	if err := attributevalue.UnmarshalMap(out.Attributes, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// PullSubscription removes a subscription id from every chat referencing it.
func (r *ChatRepo) PullSubscription(ctx context.Context, subscriptionID string) error {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("contains(subscriptions, :sid)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: subscriptionID},
		},
	})
	if err != nil {
		return err
	}
	for _, item := range out.Items {
		var c domain.Chat
		if err := attributevalue.UnmarshalMap(item, &c); err != nil {
			return err
		}
		kept := make([]string, 0, len(c.Subscriptions))
		for _, sid := range c.Subscriptions {
			if sid != subscriptionID {
				kept = append(kept, sid)
			}
		}
		ue, err := buildUpdateExpr(map[string]interface{}{fieldSubscriptions: kept})
		if err != nil {
			return err
		}
		_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(r.tableName),
			Key:                       strKey("chat_id", c.ChatID),
			UpdateExpression:          aws.String(ue.Expr),
			ExpressionAttributeNames:  ue.Names,
			ExpressionAttributeValues: ue.Values,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
