package otelhelper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/relaycrm/journey/pkg/otelhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	_, span := tracer.Start(context.Background(), "operation")
	otelhelper.SetError(span, errors.New("connection refused"),
		attribute.String(otelhelper.WorkflowIDKey, "wf-1"),
	)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	status := ended[0].Status()
	assert.Equal(t, codes.Error, status.Code)
	assert.Equal(t, "connection refused", status.Description)

	events := ended[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "exception", events[0].Name)
	assert.Contains(t, events[0].Attributes, attribute.String(otelhelper.WorkflowIDKey, "wf-1"))
}
