package reqid

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arubanetworks/central-mcp-gateway/internal/observability"
)

func TestNewGeneratesUUIDWhenTracerDisabled(t *testing.T) {
	tracer, err := observability.NewTracer(zap.NewNop(), observability.TracingConfig{Enabled: false})
	require.NoError(t, err)

	id := New(context.Background(), tracer)
	_, err = uuid.Parse(id)
	assert.NoError(t, err, "fallback id must be a valid UUID")
}

func TestNewGeneratesUUIDWhenTracerNil(t *testing.T) {
	id := New(context.Background(), nil)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestNewIdsAreUnique(t *testing.T) {
	a := New(context.Background(), nil)
	b := New(context.Background(), nil)
	assert.NotEqual(t, a, b)
}
