package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/serverless-task-manager/internal/model"
)

// MockDynamo - мок клиента DynamoDB
type MockDynamo struct {
	mock.Mock
}

func (m *MockDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *MockDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}

func (m *MockDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.UpdateItemOutput)
	return out, args.Error(1)
}

func (m *MockDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.DeleteItemOutput)
	return out, args.Error(1)
}

func (m *MockDynamo) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.CreateTableOutput)
	return out, args.Error(1)
}

func (m *MockDynamo) DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.DescribeTableOutput)
	return out, args.Error(1)
}

func (m *MockDynamo) DeleteTable(ctx context.Context, in *dynamodb.DeleteTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.DeleteTableOutput)
	return out, args.Error(1)
}

func taskItem(t model.Task) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"taskId":      &types.AttributeValueMemberS{Value: t.TaskID},
		"title":       &types.AttributeValueMemberS{Value: t.Title},
		"description": &types.AttributeValueMemberS{Value: t.Description},
		"status":      &types.AttributeValueMemberS{Value: t.Status},
	}
}

func strPtr(s string) *string { return &s }

func TestDynamoRepo_Get(t *testing.T) {
	stored := model.Task{TaskID: "abc", Title: "T", Description: "D", Status: "pending"}

	tests := []struct {
		name    string
		out     *dynamodb.GetItemOutput
		err     error
		want    model.Task
		wantErr error
	}{
		{
			name: "found",
			out:  &dynamodb.GetItemOutput{Item: taskItem(stored)},
			want: stored,
		},
		{
			name:    "missing item",
			out:     &dynamodb.GetItemOutput{},
			wantErr: ErrorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockDynamo)
			m.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
				pk, ok := in.Key["taskId"].(*types.AttributeValueMemberS)
				return aws.ToString(in.TableName) == "TasksTable" && ok && pk.Value == "abc"
			})).Return(tt.out, tt.err)

			got, err := NewDynamoRepo(m, "TasksTable").Get(context.Background(), "abc")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestDynamoRepo_GetStoreError(t *testing.T) {
	m := new(MockDynamo)
	boom := errors.New("throttled")
	m.On("GetItem", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := NewDynamoRepo(m, "TasksTable").Get(context.Background(), "abc")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrorNotFound)
}

func TestDynamoRepo_Put(t *testing.T) {
	task := model.Task{TaskID: "abc", Title: "T", Description: "D", Status: "pending"}

	m := new(MockDynamo)
	m.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return assert.ObjectsAreEqual(taskItem(task), in.Item) && in.ConditionExpression == nil
	})).Return(&dynamodb.PutItemOutput{}, nil)

	require.NoError(t, NewDynamoRepo(m, "TasksTable").Put(context.Background(), task))
	m.AssertExpectations(t)
}

func TestDynamoRepo_UpdateInput(t *testing.T) {
	r := NewDynamoRepo(nil, "TasksTable")

	t.Run("only supplied fields", func(t *testing.T) {
		in, err := r.updateInput("abc", model.TaskPatch{Status: strPtr("completed")})
		require.NoError(t, err)

		assert.Equal(t, "SET #status = :status", aws.ToString(in.UpdateExpression))
		assert.Equal(t, "attribute_exists(#pk)", aws.ToString(in.ConditionExpression))
		assert.Equal(t, map[string]string{"#pk": "taskId", "#status": "status"}, in.ExpressionAttributeNames)
		assert.Equal(t, map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: "completed"},
		}, in.ExpressionAttributeValues)
		assert.Equal(t, types.ReturnValueAllNew, in.ReturnValues)
	})

	t.Run("all fields", func(t *testing.T) {
		in, err := r.updateInput("abc", model.TaskPatch{
			Title:       strPtr("T"),
			Description: strPtr("D"),
			Status:      strPtr("pending"),
		})
		require.NoError(t, err)
		assert.Equal(t, "SET #title = :title, #description = :description, #status = :status", aws.ToString(in.UpdateExpression))
		assert.Len(t, in.ExpressionAttributeValues, 3)
	})

	t.Run("empty patch", func(t *testing.T) {
		_, err := r.updateInput("abc", model.TaskPatch{})
		assert.Error(t, err)
	})
}

func TestDynamoRepo_Update(t *testing.T) {
	updated := model.Task{TaskID: "abc", Title: "T", Description: "D", Status: "completed"}

	t.Run("returns new attributes", func(t *testing.T) {
		m := new(MockDynamo)
		m.On("UpdateItem", mock.Anything, mock.Anything).
			Return(&dynamodb.UpdateItemOutput{Attributes: taskItem(updated)}, nil)

		got, err := NewDynamoRepo(m, "TasksTable").Update(context.Background(), "abc", model.TaskPatch{Status: strPtr("completed")})
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("condition failure is not found", func(t *testing.T) {
		m := new(MockDynamo)
		m.On("UpdateItem", mock.Anything, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")})

		_, err := NewDynamoRepo(m, "TasksTable").Update(context.Background(), "abc", model.TaskPatch{Status: strPtr("completed")})
		assert.ErrorIs(t, err, ErrorNotFound)
	})
}

func TestDynamoRepo_Delete(t *testing.T) {
	m := new(MockDynamo)
	m.On("DeleteItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
		return in.ReturnValues == types.ReturnValueNone
	})).Return(&dynamodb.DeleteItemOutput{}, nil)

	require.NoError(t, NewDynamoRepo(m, "TasksTable").Delete(context.Background(), "abc"))
	m.AssertExpectations(t)
}

func TestCreateTableInput(t *testing.T) {
	tests := []struct {
		name    string
		spec    TableSpec
		wantErr bool
		check   func(*testing.T, *dynamodb.CreateTableInput)
	}{
		{
			name: "defaults",
			spec: TableSpec{},
			check: func(t *testing.T, in *dynamodb.CreateTableInput) {
				assert.Equal(t, "TasksTable", aws.ToString(in.TableName))
				assert.Equal(t, types.BillingModePayPerRequest, in.BillingMode)
				require.Len(t, in.KeySchema, 1)
				assert.Equal(t, "taskId", aws.ToString(in.KeySchema[0].AttributeName))
				assert.Equal(t, types.KeyTypeHash, in.KeySchema[0].KeyType)
				assert.Equal(t, types.ScalarAttributeTypeS, in.AttributeDefinitions[0].AttributeType)
				assert.Nil(t, in.ProvisionedThroughput)
			},
		},
		{
			name: "provisioned with tags",
			spec: TableSpec{Name: "tasks-dev", BillingMode: "provisioned", Read: 5, Write: 2, Tags: map[string]string{"stage": "dev", "app": "tasks"}},
			check: func(t *testing.T, in *dynamodb.CreateTableInput) {
				assert.Equal(t, types.BillingModeProvisioned, in.BillingMode)
				assert.Equal(t, int64(5), aws.ToInt64(in.ProvisionedThroughput.ReadCapacityUnits))
				require.Len(t, in.Tags, 2)
				assert.Equal(t, "app", aws.ToString(in.Tags[0].Key))
			},
		},
		{
			name:    "capacity without provisioned",
			spec:    TableSpec{Read: 1},
			wantErr: true,
		},
		{
			name:    "provisioned without capacity",
			spec:    TableSpec{BillingMode: "PROVISIONED"},
			wantErr: true,
		},
		{
			name:    "unknown billing mode",
			spec:    TableSpec{BillingMode: "free"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := CreateTableInput(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, in)
		})
	}
}

func TestEnsureTable(t *testing.T) {
	ctx := context.Background()

	t.Run("already exists", func(t *testing.T) {
		m := new(MockDynamo)
		m.On("DescribeTable", mock.Anything, mock.Anything).Return(&dynamodb.DescribeTableOutput{}, nil)

		created, err := EnsureTable(ctx, m, TableSpec{}, 0)
		require.NoError(t, err)
		assert.False(t, created)
		m.AssertNotCalled(t, "CreateTable", mock.Anything, mock.Anything)
	})

	t.Run("creates missing table", func(t *testing.T) {
		m := new(MockDynamo)
		m.On("DescribeTable", mock.Anything, mock.Anything).
			Return(nil, &types.ResourceNotFoundException{Message: aws.String("not found")})
		m.On("CreateTable", mock.Anything, mock.Anything).Return(&dynamodb.CreateTableOutput{}, nil)

		created, err := EnsureTable(ctx, m, TableSpec{}, 0)
		require.NoError(t, err)
		assert.True(t, created)
		m.AssertExpectations(t)
	})

	t.Run("describe error", func(t *testing.T) {
		m := new(MockDynamo)
		m.On("DescribeTable", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		_, err := EnsureTable(ctx, m, TableSpec{}, time.Second)
		assert.EqualError(t, err, "access denied")
	})
}

func TestDeleteTable_Missing(t *testing.T) {
	m := new(MockDynamo)
	m.On("DeleteTable", mock.Anything, mock.Anything).
		Return(nil, &types.ResourceNotFoundException{Message: aws.String("not found")})

	assert.NoError(t, DeleteTable(context.Background(), m, "TasksTable"))
}
