package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-task-manager/internal/config"
	"github.com/BuzzLyutic/serverless-task-manager/internal/handler"
	"github.com/BuzzLyutic/serverless-task-manager/internal/logging"
	"github.com/BuzzLyutic/serverless-task-manager/internal/repo"
	"github.com/BuzzLyutic/serverless-task-manager/internal/service"
)

func main() {
	// Без TABLE_NAME функция не стартует
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// Клиент создается один раз на контейнер и переиспользуется между вызовами
	store, closeStore, err := repo.Open(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to open task store", zap.Error(err))
	}
	defer closeStore()

	srv := service.NewTaskService(store,
		service.WithPolicy(service.Policy{StrictStatus: cfg.StrictStatus}),
		service.WithIDGenerator(handler.LambdaRequestID),
	)
	h := handler.NewLambdaHandler(srv, logger, handler.Headers(cfg.AllowOrigin))

	fn, err := h.Operation(cfg.Operation)
	if err != nil {
		logger.Fatal("Bad TASK_OPERATION", zap.Error(err))
	}

	logger.Info("Lambda handler ready",
		zap.String("operation", cfg.Operation),
		zap.String("backend", cfg.StoreBackend),
		zap.String("table", cfg.TableName),
	)
	lambda.Start(fn)
}
