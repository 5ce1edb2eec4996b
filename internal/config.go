package internal

import (
	"strconv"
	"strings"
	"time"
)

// This file contains functions to get the values of the destkit environment
// variables, so the full set is cataloged in one place.

// DESTKIT_DEPLOYMENT_UID
func DestkitDeploymentUID() string {
	return GetEnvString("DESTKIT_DEPLOYMENT_UID", "")
}

// DESTKIT_ALERT_DEDUP_WINDOW_SECONDS, identical alerts within the window are sent once
func DestkitAlertDedupWindow() time.Duration {
	return getEnvConvert("DESTKIT_ALERT_DEDUP_WINDOW_SECONDS", 15*time.Minute, parseDurationSeconds)
}

// DESTKIT_SLACK_AUTH_TOKEN
func DestkitSlackAuthToken() string {
	return GetEnvString("DESTKIT_SLACK_AUTH_TOKEN", "")
}

// DESTKIT_SLACK_CHANNEL_IDS, comma separated
func DestkitSlackChannelIDs() []string {
	return splitList(GetEnvString("DESTKIT_SLACK_CHANNEL_IDS", ""))
}

// DESTKIT_ALERTING_EMAIL_SENDER_SOURCE_EMAIL
func DestkitAlertingEmailSourceEmail() string {
	return GetEnvString("DESTKIT_ALERTING_EMAIL_SENDER_SOURCE_EMAIL", "")
}

// DESTKIT_ALERTING_EMAIL_SENDER_CONFIGURATION_SET
func DestkitAlertingEmailConfigurationSet() string {
	return GetEnvString("DESTKIT_ALERTING_EMAIL_SENDER_CONFIGURATION_SET", "")
}

// DESTKIT_ALERTING_EMAIL_SENDER_REGION
func DestkitAlertingEmailRegion() string {
	return GetEnvString("DESTKIT_ALERTING_EMAIL_SENDER_REGION", "")
}

// DESTKIT_ALERTING_EMAIL_ADDRESSES, comma separated
func DestkitAlertingEmailAddresses() []string {
	return splitList(GetEnvString("DESTKIT_ALERTING_EMAIL_ADDRESSES", ""))
}

// DESTKIT_TRACE_KAFKA_BROKERS, comma separated
func DestkitTraceKafkaBrokers() []string {
	return splitList(GetEnvString("DESTKIT_TRACE_KAFKA_BROKERS", ""))
}

// DESTKIT_TRACE_KAFKA_TOPIC
func DestkitTraceKafkaTopic() string {
	return GetEnvString("DESTKIT_TRACE_KAFKA_TOPIC", "destkit_trace_messages")
}

// DESTKIT_BUFFER_MAX_TOTAL_BYTES
func DestkitBufferMaxTotalBytes() int {
	return getEnvConvert("DESTKIT_BUFFER_MAX_TOTAL_BYTES", 200<<20, parseInt)
}

// DESTKIT_BUFFER_MAX_STREAM_BYTES
func DestkitBufferMaxStreamBytes() int {
	return getEnvConvert("DESTKIT_BUFFER_MAX_STREAM_BYTES", 50<<20, parseInt)
}

// DESTKIT_BUFFER_MEMORY_BLOCK_BYTES
func DestkitBufferMemoryBlockBytes() int {
	return getEnvConvert("DESTKIT_BUFFER_MEMORY_BLOCK_BYTES", 10<<20, parseInt)
}

// DESTKIT_BUFFER_MAX_CONCURRENT_STREAMS
func DestkitBufferMaxConcurrentStreams() uint32 {
	return getEnvConvert("DESTKIT_BUFFER_MAX_CONCURRENT_STREAMS", 10, parseUint32)
}

// DESTKIT_CONNECT_TIMEOUT_SECONDS
func DestkitConnectTimeout() time.Duration {
	return getEnvConvert("DESTKIT_CONNECT_TIMEOUT_SECONDS", 30*time.Second, parseDurationSeconds)
}

// DESTKIT_POSTGRES_REQUIRE_TLS
func DestkitPostgresRequireTls() bool {
	return getEnvConvert("DESTKIT_POSTGRES_REQUIRE_TLS", false, strconv.ParseBool)
}

// DESTKIT_OTEL_METRICS_NAMESPACE
func DestkitOtelMetricsNamespace() string {
	return GetEnvString("DESTKIT_OTEL_METRICS_NAMESPACE", "")
}

// DESTKIT_OTEL_METRICS_ENABLED
func DestkitOtelMetricsEnabled() bool {
	return getEnvConvert("DESTKIT_OTEL_METRICS_ENABLED", false, strconv.ParseBool)
}

func splitList(val string) []string {
	var out []string
	for part := range strings.SplitSeq(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
