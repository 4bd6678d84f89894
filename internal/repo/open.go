package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/serverless-task-manager/internal/config"
)

// Open строит хранилище по конфигу. close освобождает соединения, вызывать при остановке процесса.
func Open(ctx context.Context, cfg config.Config) (TaskRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendDynamoDB:
		client, err := NewDynamoClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint)
		if err != nil {
			return nil, nil, fmt.Errorf("dynamodb client: %w", err)
		}
		return NewDynamoRepo(client, cfg.TableName), func() {}, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		return NewPostgresRepo(pool), pool.Close, nil

	case config.BackendMemory:
		return NewMemoryRepo(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
}
