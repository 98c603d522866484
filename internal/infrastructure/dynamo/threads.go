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

// ThreadRepo provides typed DynamoDB operations for the threads table.
type ThreadRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewThreadRepo(client *dynamodb.Client, tableName string) *ThreadRepo {
	return &ThreadRepo{client: client, tableName: tableName}
}

func (r *ThreadRepo) Put(ctx context.Context, t *domain.Thread) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal thread: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ThreadRepo) Get(ctx context.Context, threadID string) (*domain.Thread, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("thread_id", threadID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("thread %s: %w", threadID, domain.ErrNotFound)
	}
	var t domain.Thread
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// PushSubscription prepends a subscription id to the thread's subscriptions
// list. Targeting an absent thread reports domain.ErrNotFound.
func (r *ThreadRepo) PushSubscription(ctx context.Context, threadID, subscriptionID string) (*domain.Thread, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("thread_id", threadID),
		UpdateExpression:    aws.String("SET subscriptions = list_append(:new, if_not_exists(subscriptions, :empty))"),
		ConditionExpression: aws.String("attribute_exists(thread_id)"),
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
			return nil, fmt.Errorf("thread %s: %w", threadID, domain.ErrNotFound)
		}
		return nil, err
	}
	var t domain.Thread
	if err := attributevalue.UnmarshalMap(out.Attributes, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// PullSubscription removes a subscription id from every thread referencing it.
// Parent lists are small, so a filtered scan plus read-modify-write per match
// is acceptable; there is no optimistic concurrency check on the rewrite.
func (r *ThreadRepo) PullSubscription(ctx context.Context, subscriptionID string) error {
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
		var t domain.Thread
		if err := attributevalue.UnmarshalMap(item, &t); err != nil {
			return err
		}
		kept := make([]string, 0, len(t.Subscriptions))
		for _, sid := range t.Subscriptions {
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
			Key:                       strKey("thread_id", t.ThreadID),
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
