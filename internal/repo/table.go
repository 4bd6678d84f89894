package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"gopkg.in/yaml.v3"
)

const DefaultTableName = "TasksTable"

// TableAPI - вызовы, нужные для создания и удаления таблицы
type TableAPI interface {
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	DeleteTable(ctx context.Context, in *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error)
}

type TableSpec struct {
	Name        string            `yaml:"name"`
	BillingMode string            `yaml:"billing_mode"` // PAY_PER_REQUEST или PROVISIONED
	Read        int64             `yaml:"read"`
	Write       int64             `yaml:"write"`
	Tags        map[string]string `yaml:"tags"`
}

func (s TableSpec) withDefaults() TableSpec {
	if s.Name == "" {
		s.Name = DefaultTableName
	}
	if s.BillingMode == "" {
		s.BillingMode = string(types.BillingModePayPerRequest)
	}
	s.BillingMode = strings.ToUpper(s.BillingMode)
	return s
}

// ParseTableSpec читает описание таблицы из yaml, неизвестные поля - ошибка
func ParseTableSpec(data []byte) (TableSpec, error) {
	var spec TableSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		return TableSpec{}, fmt.Errorf("parse table spec: %w", err)
	}
	return spec, nil
}

// CreateTableInput описывает таблицу задач: partition key taskId (S)
func CreateTableInput(spec TableSpec) (*dynamodb.CreateTableInput, error) {
	spec = spec.withDefaults()

	input := &dynamodb.CreateTableInput{
		TableName: aws.String(spec.Name),
		AttributeDefinitions: []types.AttributeDefinition{{
			AttributeName: aws.String(keyAttr),
			AttributeType: types.ScalarAttributeTypeS,
		}},
		KeySchema: []types.KeySchemaElement{{
			AttributeName: aws.String(keyAttr),
			KeyType:       types.KeyTypeHash,
		}},
	}

	switch types.BillingMode(spec.BillingMode) {
	case types.BillingModePayPerRequest:
		if spec.Read != 0 || spec.Write != 0 {
			return nil, fmt.Errorf("read/write capacity requires billing mode PROVISIONED")
		}
		input.BillingMode = types.BillingModePayPerRequest
	case types.BillingModeProvisioned:
		if spec.Read <= 0 || spec.Write <= 0 {
			return nil, fmt.Errorf("provisioned billing requires positive read and write capacity")
		}
		input.BillingMode = types.BillingModeProvisioned
		input.ProvisionedThroughput = &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(spec.Read),
			WriteCapacityUnits: aws.Int64(spec.Write),
		}
	default:
		return nil, fmt.Errorf("unknown billing mode: %s", spec.BillingMode)
	}

	keys := make([]string, 0, len(spec.Tags))
	for k := range spec.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		input.Tags = append(input.Tags, types.Tag{Key: aws.String(k), Value: aws.String(spec.Tags[k])})
	}

	return input, nil
}

// EnsureTable создает таблицу, если ее нет, и ждет статуса ACTIVE.
// Возвращает true, если таблица была создана.
func EnsureTable(ctx context.Context, client TableAPI, spec TableSpec, wait time.Duration) (bool, error) {
	input, err := CreateTableInput(spec)
	if err != nil {
		return false, err
	}

	_, err = client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: input.TableName})
	if err == nil {
		return false, nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return false, err
	}

	if _, err := client.CreateTable(ctx, input); err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return false, nil
		}
		return false, err
	}

	if wait > 0 {
		waiter := dynamodb.NewTableExistsWaiter(client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: input.TableName}, wait); err != nil {
			return true, err
		}
	}
	return true, nil
}

func DeleteTable(ctx context.Context, client TableAPI, name string) error {
	_, err := client.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(name)})
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// NewDynamoClient создает клиент один раз при старте процесса.
// endpoint задается для DynamoDB Local, тогда используются статические ключи.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region == "" && endpoint != "" {
		region = "us-east-1"
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if endpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}
