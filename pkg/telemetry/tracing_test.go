package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracer_None(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "jta-api", ExporterNone, "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_Stdout(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "jta-api", ExporterStdout, "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_Unknown(t *testing.T) {
	_, err := InitTracer(context.Background(), "jta-api", "zipkin", "")
	assert.Error(t, err)
}
