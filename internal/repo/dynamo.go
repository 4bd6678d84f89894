package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/BuzzLyutic/serverless-task-manager/internal/model"
)

const keyAttr = "taskId"

// DynamoAPI - подмножество *dynamodb.Client, которое нужно репозиторию
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ TaskRepository = (*DynamoRepo)(nil)

type DynamoRepo struct { // Репозиторий поверх одной таблицы DynamoDB
	client DynamoAPI
	table  string
}

func NewDynamoRepo(client DynamoAPI, table string) *DynamoRepo {
	return &DynamoRepo{
		client: client,
		table:  table,
	}
}

func key(taskID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttr: &types.AttributeValueMemberS{Value: taskID},
	}
}

func (r *DynamoRepo) Get(ctx context.Context, taskID string) (model.Task, error) {
	var t model.Task
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       key(taskID),
	})
	if err != nil {
		return t, err
	}
	if len(out.Item) == 0 {
		return t, ErrorNotFound
	}
	err = attributevalue.UnmarshalMap(out.Item, &t)
	return t, err
}

func (r *DynamoRepo) Put(ctx context.Context, t model.Task) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	return err
}

func (r *DynamoRepo) Update(ctx context.Context, taskID string, patch model.TaskPatch) (model.Task, error) {
	var t model.Task

	in, err := r.updateInput(taskID, patch)
	if err != nil {
		return t, err
	}

	out, err := r.client.UpdateItem(ctx, in)
	if err != nil {
		return t, r.mapError(err)
	}
	err = attributevalue.UnmarshalMap(out.Attributes, &t)
	return t, err
}

// updateInput строит SET-выражение ровно по заданным полям патча.
// Условие attribute_exists не дает update воссоздать удаленную запись.
func (r *DynamoRepo) updateInput(taskID string, patch model.TaskPatch) (*dynamodb.UpdateItemInput, error) {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil, errors.New("empty patch")
	}

	sets := make([]string, 0, len(fields))
	names := map[string]string{"#pk": keyAttr}
	values := make(map[string]types.AttributeValue, len(fields))
	for _, f := range fields {
		sets = append(sets, fmt.Sprintf("#%s = :%s", f.Name, f.Name))
		names["#"+f.Name] = f.Name
		values[":"+f.Name] = &types.AttributeValueMemberS{Value: f.Value}
	}

	return &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       key(taskID),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	}, nil
}

func (r *DynamoRepo) Delete(ctx context.Context, taskID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.table),
		Key:          key(taskID),
		ReturnValues: types.ReturnValueNone,
	})
	return err
}

func (r *DynamoRepo) mapError(err error) error {
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return ErrorNotFound
	}
	return err
}
