package internal

import (
	"context"
	"log/slog"

	"github.com/PeerDB-io/destkit/shared"
)

var loggerKeys = []shared.ContextKey{shared.PeerNameKey, shared.TableNameKey, shared.StreamNameKey}

// LoggerFromCtx returns the default logger annotated with the peer/table/stream found on ctx.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	for _, key := range loggerKeys {
		if v, ok := ctx.Value(key).(string); ok {
			logger = logger.With(slog.String(string(key), v))
		}
	}
	return logger
}

func WithPeerName(ctx context.Context, peerName string) context.Context {
	return context.WithValue(ctx, shared.PeerNameKey, peerName)
}

func WithTableName(ctx context.Context, tableName string) context.Context {
	return context.WithValue(ctx, shared.TableNameKey, tableName)
}

func WithStreamName(ctx context.Context, streamName string) context.Context {
	return context.WithValue(ctx, shared.StreamNameKey, streamName)
}
