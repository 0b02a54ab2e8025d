package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := LogsConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		ServiceName:       "catalog-test",
		Insecure:          true,
	}

	lp, err := NewLoggerProvider(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, lp)

	assert.False(t, lp.IsEnabled())
	assert.Nil(t, lp.GetLoggerProvider())
	assert.Equal(t, "catalog-test", lp.GetConfig().ServiceName)
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestNewZapOTELCore(t *testing.T) {
	t.Run("nil provider gives a nop core", func(t *testing.T) {
		core := NewZapOTELCore(ZapBridgeConfig{ServiceName: "catalog-test"})
		assert.False(t, core.Enabled(zapcore.ErrorLevel))
	})

	t.Run("disabled provider gives a nop core", func(t *testing.T) {
		lp, err := NewLoggerProvider(context.Background(), LogsConfig{}, zap.NewNop())
		require.NoError(t, err)

		core := NewZapOTELCore(ZapBridgeConfig{ServiceName: "catalog-test", LoggerProvider: lp})
		assert.False(t, core.Enabled(zapcore.ErrorLevel))
	})

	t.Run("enabled provider filters below level", func(t *testing.T) {
		sdk := sdklog.NewLoggerProvider()
		t.Cleanup(func() { _ = sdk.Shutdown(context.Background()) })
		lp := &LoggerProvider{provider: sdk, logger: zap.NewNop(), config: LogsConfig{Enabled: true}}

		core := NewZapOTELCore(ZapBridgeConfig{
			ServiceName:    "catalog-test",
			LoggerProvider: lp,
			Level:          zapcore.WarnLevel,
		})
		_, filtered := core.(*levelFilterCore)
		assert.True(t, filtered)
		assert.False(t, core.Enabled(zapcore.InfoLevel))
	})

	t.Run("debug level skips the filter", func(t *testing.T) {
		sdk := sdklog.NewLoggerProvider()
		t.Cleanup(func() { _ = sdk.Shutdown(context.Background()) })
		lp := &LoggerProvider{provider: sdk, logger: zap.NewNop(), config: LogsConfig{Enabled: true}}

		core := NewZapOTELCore(ZapBridgeConfig{LoggerProvider: lp, Level: zapcore.DebugLevel})
		_, filtered := core.(*levelFilterCore)
		assert.False(t, filtered)
	})
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, level: zapcore.WarnLevel}

	logger := zap.New(core).With(zap.String("component", "import"))
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("also kept")

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "import", entries[0].ContextMap()["component"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)

	_, stillFiltered := core.With(nil).(*levelFilterCore)
	assert.True(t, stillFiltered)
}

func TestNewBridgedLogger(t *testing.T) {
	base, baseLogs := observer.New(zapcore.InfoLevel)
	bridge, bridgeLogs := observer.New(zapcore.WarnLevel)

	logger := NewBridgedLogger(base, bridge, zap.Fields(zap.String("service", "catalog")))
	logger.Info("product created")
	logger.Warn("import rejected rows")

	assert.Equal(t, 2, baseLogs.Len())
	require.Equal(t, 1, bridgeLogs.Len())
	assert.Equal(t, "import rejected rows", bridgeLogs.All()[0].Message)
	assert.Equal(t, "catalog", bridgeLogs.All()[0].ContextMap()["service"])
}
