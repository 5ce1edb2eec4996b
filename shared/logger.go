package shared

import (
	"context"
	"log/slog"
	"os"
)

var _ slog.Handler = SlogHandler{}

// SlogHandler stamps every record with the deployment UID.
// Peer, table and stream names are attached by internal.LoggerFromCtx.
type SlogHandler struct {
	slog.Handler
}

func NewSlogHandler(handler slog.Handler) slog.Handler {
	return SlogHandler{
		Handler: handler,
	}
}

func (h SlogHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(slog.String(string(DeploymentUIDKey), os.Getenv("DESTKIT_DEPLOYMENT_UID")))
	return h.Handler.Handle(ctx, record)
}

func (h SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return SlogHandler{h.Handler.WithAttrs(attrs)}
}

func (h SlogHandler) WithGroup(name string) slog.Handler {
	return SlogHandler{h.Handler.WithGroup(name)}
}

func NewSlogHandlerOptions() *slog.HandlerOptions {
	if level, ok := os.LookupEnv("DESTKIT_LOG_LEVEL"); ok {
		var ll slog.Level
		switch level {
		case "DEBUG":
			ll = slog.LevelDebug
		case "WARN":
			ll = slog.LevelWarn
		case "ERROR":
			ll = slog.LevelError
		default:
			ll = slog.LevelInfo
		}
		return &slog.HandlerOptions{
			Level: ll,
		}
	}
	return nil
}
