package internal

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvDefaultsWhenUnset(t *testing.T) {
	t.Setenv("DESTKIT_ALERT_DEDUP_WINDOW_SECONDS", "")
	assert.Equal(t, 15*time.Minute, DestkitAlertDedupWindow(), "unparsable value falls back to default")

	assert.Equal(t, "destkit_trace_messages", DestkitTraceKafkaTopic())
	assert.Equal(t, uint32(10), DestkitBufferMaxConcurrentStreams())
}

func TestEnvParsedValues(t *testing.T) {
	t.Setenv("DESTKIT_ALERT_DEDUP_WINDOW_SECONDS", "60")
	t.Setenv("DESTKIT_BUFFER_MAX_TOTAL_BYTES", "1024")
	t.Setenv("DESTKIT_POSTGRES_REQUIRE_TLS", "true")
	t.Setenv("DESTKIT_SLACK_CHANNEL_IDS", " C1, ,C2 ")

	assert.Equal(t, time.Minute, DestkitAlertDedupWindow())
	assert.Equal(t, 1024, DestkitBufferMaxTotalBytes())
	assert.True(t, DestkitPostgresRequireTls())
	assert.Equal(t, []string{"C1", "C2"}, DestkitSlackChannelIDs())
}

func TestEnvInvalidBoolFallsBack(t *testing.T) {
	t.Setenv("DESTKIT_OTEL_METRICS_ENABLED", "sometimes")
	assert.False(t, DestkitOtelMetricsEnabled())
}

func TestLoggerFromCtxCarriesKeys(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := WithTableName(WithPeerName(context.Background(), "warehouse"), "public.users")
	LoggerFromCtx(ctx).Info("introspected")

	assert.Contains(t, buf.String(), "peerName=warehouse")
	assert.Contains(t, buf.String(), "tableName=public.users")
	assert.NotContains(t, buf.String(), "streamName")
}

func TestLoggerFromCtxCarriesStreamName(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	LoggerFromCtx(WithStreamName(context.Background(), "public.orders")).Info("flushing")

	assert.Contains(t, buf.String(), "streamName=public.orders")
	assert.NotContains(t, buf.String(), "peerName")
}
