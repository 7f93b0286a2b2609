package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// The service runs behind a container or Lambda-style runtime where secrets and
// AWS settings come in as environment variables. A local .env file is honoured
// for development.

type Config struct {
	ServerPort               string `mapstructure:"SERVER_PORT"`
	SecretKey                string `mapstructure:"SECRET_KEY"`
	AccessTokenExpireMinutes int    `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	APIUsername              string `mapstructure:"API_USERNAME"`
	APIPassword              string `mapstructure:"API_PASSWORD"`
	AWSRegion                string `mapstructure:"AWS_REGION"`
	AWSAccessKeyID           string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey       string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	AWSEndpoint              string `mapstructure:"AWS_ENDPOINT"`
	IsLocalDev               bool   `mapstructure:"IS_LOCAL_DEV"`
	StoreBackend             string `mapstructure:"STORE_BACKEND"`
	StaffTable               string `mapstructure:"STAFF_TABLE"`
	ShiftsTable              string `mapstructure:"SHIFTS_TABLE"`
	ExpensesTable            string `mapstructure:"EXPENSES_TABLE"`
	OTelExporter             string `mapstructure:"OTEL_EXPORTER"`
	OTelEndpoint             string `mapstructure:"OTEL_ENDPOINT"`
}

const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

var (
	ErrMissingSecret      = errors.New("SECRET_KEY must be set")
	ErrMissingCredentials = errors.New("API_USERNAME and API_PASSWORD must be set")
	ErrInvalidTTL         = errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	ErrUnknownStore       = errors.New("STORE_BACKEND must be dynamodb or memory")
)

// LoadConfig reads configuration from an optional .env file and environment variables.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom is LoadConfig with an explicit dotenv path. A missing file is not an error.
func LoadConfigFrom(envFile string) (config Config, err error) {
	if _, statErr := os.Stat(envFile); statErr == nil {
		// godotenv never overrides variables already present in the environment.
		if err = godotenv.Load(envFile); err != nil {
			return config, err
		}
	}

	v := viper.New()
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 15)
	v.SetDefault("API_USERNAME", "")
	v.SetDefault("API_PASSWORD", "")
	v.SetDefault("AWS_REGION", "eu-north-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("AWS_ENDPOINT", "")
	v.SetDefault("IS_LOCAL_DEV", false)
	v.SetDefault("STORE_BACKEND", StoreDynamoDB)
	v.SetDefault("STAFF_TABLE", "Staff")
	v.SetDefault("SHIFTS_TABLE", "Shifts")
	v.SetDefault("EXPENSES_TABLE", "Expenses")
	v.SetDefault("OTEL_EXPORTER", "none")
	v.SetDefault("OTEL_ENDPOINT", "jaeger:4317")

	// boto-style deployments set AWS_DEFAULT_REGION rather than AWS_REGION.
	if err = v.BindEnv("AWS_REGION", "AWS_REGION", "AWS_DEFAULT_REGION"); err != nil {
		return config, err
	}

	v.AutomaticEnv()

	if err = v.Unmarshal(&config); err != nil {
		return config, err
	}
	return config, config.Validate()
}

// Validate checks the settings the API cannot start without.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return ErrMissingSecret
	}
	if c.APIUsername == "" || c.APIPassword == "" {
		return ErrMissingCredentials
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return ErrInvalidTTL
	}
	if c.StoreBackend != StoreDynamoDB && c.StoreBackend != StoreMemory {
		return ErrUnknownStore
	}
	return nil
}
