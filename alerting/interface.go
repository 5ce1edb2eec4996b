package alerting

import "context"

type AlertSender interface {
	sendAlert(ctx context.Context, msg *TraceMessage) error
	senderName() string
}
