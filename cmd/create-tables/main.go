// Creates the DynamoDB tables the API reads and writes. Safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jta.service/internal/config"
	"jta.service/internal/core/model"
	"jta.service/pkg/aws"
	"jta.service/pkg/logger"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

const waitTimeout = 2 * time.Minute

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	logger.Setup(cfg.IsLocalDev)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// AWS SDK Config
	awsCfg, err := aws.NewAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}
	client := dynamodb.NewFromConfig(awsCfg)

	schemas := []model.Schema{
		model.NewStaffSchema(cfg.StaffTable),
		model.NewShiftSchema(cfg.ShiftsTable),
		model.NewExpenseSchema(cfg.ExpensesTable),
	}

	for _, s := range schemas {
		if err := createTable(ctx, client, s); err != nil {
			log.Fatal().Err(err).Str("table", s.Table).Msg("Failed to create table")
		}
	}

	log.Info().Int("tables", len(schemas)).Msg("Tables ready")
}

func createTable(ctx context.Context, client *dynamodb.Client, s model.Schema) error {
	_, err := client.CreateTable(ctx, tableInput(s))

	var inUse *types.ResourceInUseException
	switch {
	case errors.As(err, &inUse):
		log.Info().Str("table", s.Table).Msg("Table already exists")
		return nil
	case err != nil:
		return err
	}

	log.Info().Str("table", s.Table).Msg("Waiting for table to become active")
	waiter := dynamodb.NewTableExistsWaiter(client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: awssdk.String(s.Table)}, waitTimeout)
}

// tableInput declares only the key attributes; every other attribute is schemaless.
func tableInput(s model.Schema) *dynamodb.CreateTableInput {
	in := &dynamodb.CreateTableInput{
		TableName:   awssdk.String(s.Table),
		BillingMode: types.BillingModePayPerRequest,
	}

	for i, f := range s.KeyFields() {
		keyType := types.KeyTypeHash
		if i > 0 {
			keyType = types.KeyTypeRange
		}
		in.KeySchema = append(in.KeySchema, types.KeySchemaElement{
			AttributeName: awssdk.String(f),
			KeyType:       keyType,
		})
		in.AttributeDefinitions = append(in.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: awssdk.String(f),
			AttributeType: types.ScalarAttributeTypeS,
		})
	}
	return in
}
