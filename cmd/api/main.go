// Entry point for REST API
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jta.service/internal/adapters/dynamo"
	"jta.service/internal/adapters/memory"
	"jta.service/internal/api"
	"jta.service/internal/config"
	"jta.service/internal/core"
	"jta.service/internal/core/model"
	"jta.service/internal/ports/repository"
	"jta.service/pkg/aws"
	"jta.service/pkg/logger"
	"jta.service/pkg/telemetry"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	// Configure structured logging
	logger.Setup(cfg.IsLocalDev)

	// Configure OpenTelemetry Tracing
	shutdownTracer, err := telemetry.InitTracer(context.Background(), "jta-api", cfg.OTelExporter, cfg.OTelEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	schemas := struct{ staff, shifts, expenses model.Schema }{
		staff:    model.NewStaffSchema(cfg.StaffTable),
		shifts:   model.NewShiftSchema(cfg.ShiftsTable),
		expenses: model.NewExpenseSchema(cfg.ExpensesTable),
	}

	// Record store
	var store repository.Store
	switch cfg.StoreBackend {
	case config.StoreMemory:
		log.Warn().Msg("Using in-memory store; records are lost on restart.")
		store = memory.NewStore(map[string][]string{
			schemas.staff.Table:    schemas.staff.KeyFields(),
			schemas.shifts.Table:   schemas.shifts.KeyFields(),
			schemas.expenses.Table: schemas.expenses.KeyFields(),
		})
	default:
		awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("unable to load SDK config")
		}
		store = dynamo.NewStore(dynamodb.NewFromConfig(awsCfg))
	}

	// Initialize dependencies
	validate := core.NewValidator()
	services := api.Services{
		Auth: core.NewAuthService(
			cfg.SecretKey,
			cfg.APIUsername,
			cfg.APIPassword,
			time.Duration(cfg.AccessTokenExpireMinutes)*time.Minute,
		),
		Staff:    core.NewRecordService[model.Staff](store, schemas.staff, validate),
		Shifts:   core.NewRecordService[model.Shift](store, schemas.shifts, validate),
		Expenses: core.NewRecordService[model.Expense](store, schemas.expenses, validate),
	}

	// Setup router and server
	router := api.NewRouter(services)

	// Wrap the router with OpenTelemetry middleware to create spans for each request
	handler := otelhttp.NewHandler(router, "api")

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.ServerPort).Str("store", cfg.StoreBackend).Msg("API Service starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// The server has 5 seconds to finish the requests it is currently handling.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
