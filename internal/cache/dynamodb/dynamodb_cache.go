// internal/cache/dynamodb/dynamodb_cache.go
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/taskfence/taskfence/internal/cache"
	"github.com/taskfence/taskfence/internal/observability"
)

// StoreName is the registered name of the DynamoDB backend
const StoreName = "dynamodb"

func init() {
	cache.Register(StoreName, newCache)
}

func newCache(ctx context.Context, options cache.Options, logger *observability.SLogger) (cache.KVCache, error) {
	cfg, ok := options.(*DynamoDBConfig)
	if !ok && options != nil {
		return nil, &cache.InvalidConfigurationError{Backend: StoreName, Config: options}
	}
	return New(ctx, cfg, logger)
}

// dynamoDBClient defines the interface for DynamoDB operations
// This allows for easier mocking in tests
type dynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Cache implements cache.KVCache on top of DynamoDB. DynamoDB removes
// TTL-expired items lazily, so the insert condition also treats items with
// ExpiresAt in the past as absent.
type Cache struct {
	client    dynamoDBClient
	tableName string
	logger    *observability.SLogger
	config    *DynamoDBConfig

	// now is the clock used when computing expiry attributes
	now func() time.Time
}

// GetConfig returns the current backend configuration
func (c *Cache) GetConfig() cache.Config {
	return c.config
}

// New creates a new DynamoDB backend
func New(ctx context.Context, config *DynamoDBConfig, logger *observability.SLogger) (*Cache, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	var clientOpts []func(*awsconfig.LoadOptions) error

	// Use custom endpoint if provided
	if len(config.Endpoints) > 0 {
		clientOpts = append(clientOpts, awsconfig.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{URL: config.Endpoints[0]}, nil
				},
			),
		))
	}

	// Use static credentials if provided
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		clientOpts = append(clientOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		))
	}

	clientOpts = append(clientOpts, awsconfig.WithRegion(config.Region))

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, clientOpts...)
	if err != nil {
		logger.Errorf("Failed to load AWS config: %v", err)
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	c := &Cache{
		client:    dynamodb.NewFromConfig(awsConfig),
		tableName: config.Table,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}

	if err := c.ensureTableExists(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// ensureTableExists checks if the DynamoDB table exists and creates it if it doesn't
func (c *Cache) ensureTableExists(ctx context.Context) error {
	_, err := c.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(c.tableName),
	})

	if err == nil {
		// Table exists
		return nil
	}

	_, err = c.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(c.tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("PK"),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("PK"),
				KeyType:       types.KeyTypeHash,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})

	if err != nil {
		c.logger.Errorf("Failed to create table: %v", err)
		return fmt.Errorf("failed to create table: %w", err)
	}

	waiter := dynamodb.NewTableExistsWaiter(c.client)
	err = waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(c.tableName),
	}, 5*time.Minute)

	if err != nil {
		c.logger.Errorf("Failed to wait for table creation: %v", err)
		return fmt.Errorf("failed to wait for table creation: %w", err)
	}

	return nil
}

// SetIfAbsent atomically creates key -> value via a conditional PutItem.
// The condition treats missing items and items whose ExpiresAt has passed
// as absent. A failed condition means the key is held, not an error.
func (c *Cache) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	now := c.now()
	expiresAt := now.Add(ttl).Unix()

	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"PK":        &types.AttributeValueMemberS{Value: key},
			"Owner":     &types.AttributeValueMemberS{Value: value},
			"ExpiresAt": &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt, 10)},
		},
		ConditionExpression: aws.String("attribute_not_exists(PK) OR ExpiresAt < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
	})

	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return false, nil
		}
		return false, fmt.Errorf("dynamodb conditional put failed: %w", err)
	}

	return true, nil
}

// Delete removes key. DeleteItem on a missing key succeeds.
func (c *Cache) Delete(ctx context.Context, key string) error {
	_, err := c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: key},
		},
	})

	if err != nil {
		return fmt.Errorf("dynamodb delete failed: %w", err)
	}
	return nil
}

// Close closes the DynamoDB client
func (c *Cache) Close() {
	// DynamoDB client doesn't need explicit closing
}
