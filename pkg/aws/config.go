package aws

import (
	"context"

	"jta.service/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/rs/zerolog/log"
)

// NewAWSConfig creates a new AWS configuration, pointing to a local endpoint
// (LocalStack, DynamoDB Local) if one is configured.
func NewAWSConfig(ctx context.Context, appConfig config.Config) (aws.Config, error) {
	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(appConfig.AWSRegion),
	}

	switch {
	case appConfig.AWSAccessKeyID != "" && appConfig.AWSSecretAccessKey != "":
		// Explicit keys from the environment take precedence over the default chain.
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(appConfig.AWSAccessKeyID, appConfig.AWSSecretAccessKey, ""),
		))
	case appConfig.IsLocalDev:
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test", "test", ""),
		))
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}

	if appConfig.AWSEndpoint != "" {
		log.Info().Str("endpoint", appConfig.AWSEndpoint).Msg("Routing AWS calls to custom endpoint.")
		cfg.BaseEndpoint = aws.String(appConfig.AWSEndpoint)
	} else {
		// This will automatically use credentials from the environment (e.g., IAM role for service accounts).
		log.Info().Str("region", appConfig.AWSRegion).Msg("Using standard AWS endpoint resolution.")
	}

	return cfg, nil
}
