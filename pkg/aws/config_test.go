package aws

import (
	"context"
	"testing"

	"jta.service/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAWSConfig_LocalEndpoint(t *testing.T) {
	cfg, err := NewAWSConfig(context.Background(), config.Config{
		AWSRegion:   "eu-north-1",
		AWSEndpoint: "http://localhost:4566",
		IsLocalDev:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "eu-north-1", cfg.Region)
	assert.Equal(t, "http://localhost:4566", aws.ToString(cfg.BaseEndpoint))

	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", creds.AccessKeyID)
}

func TestNewAWSConfig_StaticKeys(t *testing.T) {
	cfg, err := NewAWSConfig(context.Background(), config.Config{
		AWSRegion:          "eu-west-1",
		AWSAccessKeyID:     "AKIDEXAMPLE",
		AWSSecretAccessKey: "secret",
	})
	require.NoError(t, err)

	assert.Nil(t, cfg.BaseEndpoint)
	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
}
