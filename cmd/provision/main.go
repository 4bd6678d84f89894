package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-task-manager/internal/logging"
	"github.com/BuzzLyutic/serverless-task-manager/internal/repo"
)

type args struct {
	Table    string        `arg:"-t,--table,env:TABLE_NAME" help:"table name, overrides the file"`
	File     string        `arg:"-f,--file" help:"yaml table description"`
	Region   string        `arg:"--region,env:AWS_REGION"`
	Endpoint string        `arg:"--endpoint,env:DYNAMODB_ENDPOINT" help:"DynamoDB Local url"`
	Wait     time.Duration `arg:"-w,--wait" default:"2m" help:"wait for ACTIVE, 0 to skip"`
	Delete   bool          `arg:"--delete" help:"delete the table instead"`
}

func (args) Description() string {
	return `
create the tasks table (partition key taskId:S) if it does not exist

example:
 - provision --table TasksTable
 - provision --file deploy/table.yaml --endpoint http://localhost:8000
`
}

func main() {
	var a args
	arg.MustParse(&a)

	logger, err := logging.New("info")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	var spec repo.TableSpec
	if a.File != "" {
		data, err := os.ReadFile(a.File)
		if err != nil {
			logger.Fatal("Failed to read table file", zap.Error(err))
		}
		if spec, err = repo.ParseTableSpec(data); err != nil {
			logger.Fatal("Bad table file", zap.Error(err))
		}
	}
	if a.Table != "" {
		spec.Name = a.Table
	}
	if spec.Name == "" {
		spec.Name = repo.DefaultTableName
	}

	ctx := context.Background()
	client, err := repo.NewDynamoClient(ctx, a.Region, a.Endpoint)
	if err != nil {
		logger.Fatal("Failed to create dynamodb client", zap.Error(err))
	}

	if a.Delete {
		if err := repo.DeleteTable(ctx, client, spec.Name); err != nil {
			logger.Fatal("Failed to delete table", zap.String("table", spec.Name), zap.Error(err))
		}
		logger.Info("Table deleted", zap.String("table", spec.Name))
		return
	}

	created, err := repo.EnsureTable(ctx, client, spec, a.Wait)
	if err != nil {
		logger.Fatal("Failed to ensure table", zap.String("table", spec.Name), zap.Error(err))
	}
	logger.Info("Table ready", zap.String("table", spec.Name), zap.Bool("created", created))
}
