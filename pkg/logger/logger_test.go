package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func TestNew_ProductionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})
	log.Named("ledger").Info().Str("op", "adjust").Msg("ok")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "ledger", line["component"])
	assert.Equal(t, "adjust", line["op"])
	assert.Equal(t, "ok", line["message"])
}

func TestNew_NivelFiltraDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})
	log.Debug().Msg("no debe salir")
	log.Info().Msg("tampoco")
	assert.Zero(t, buf.Len())
}

func TestNop_NoFalla(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Error().Msg("descartado") })
}

func TestNew_NivelInvalidoEsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "verbose", Output: &buf})
	log.Debug().Msg("no")
	assert.Zero(t, buf.Len())
	log.Info().Msg("si")
	assert.NotZero(t, buf.Len())
}

func TestWithSpan_AgregaIdsDeTraza(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("b7ad6b7169203331")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})

	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})
	log.WithSpan(sc).Info().Msg("con traza")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "0af7651916cd43dd8448eb211c80319c", line["trace_id"])
	assert.Equal(t, "b7ad6b7169203331", line["span_id"])

	assert.Same(t, log, log.WithSpan(trace.SpanContext{}), "sin span no cambia")
}
