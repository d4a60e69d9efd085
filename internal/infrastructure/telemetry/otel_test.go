package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/inventario-ledger/internal/infrastructure/telemetry"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

func TestSetupTracing_SinEndpointEsNoop(t *testing.T) {
	before := otel.GetTracerProvider()
	tp, shutdown, err := telemetry.SetupTracing(context.Background(), config.TelemetryConfig{}, "test")
	require.NoError(t, err)
	assert.Nil(t, tp)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider(), "no reemplaza el provider global")
}

func TestSetupTracing_ConEndpointRegistraProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tp, shutdown, err := telemetry.SetupTracing(context.Background(), config.TelemetryConfig{
		OTLPEndpoint: "127.0.0.1:4318", ServiceName: "inventario-ledger-test", Insecure: true,
	}, "test")
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.Equal(t, tp, otel.GetTracerProvider())
	// Sin spans no hay nada que exportar.
	assert.NoError(t, shutdown(context.Background()))
}
