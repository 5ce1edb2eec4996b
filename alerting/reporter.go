package alerting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/PeerDB-io/destkit/internal"
	"github.com/PeerDB-io/destkit/otel_metrics"
)

// Reporter is the single exit point for errors that end a command.
type Reporter struct {
	otelManager *otel_metrics.OtelManager
	lastSent    cmap.ConcurrentMap[string, time.Time]
	now         func() time.Time
	senders     []AlertSender
	dedupWindow time.Duration
}

func NewReporter(otelManager *otel_metrics.OtelManager, dedupWindow time.Duration, senders ...AlertSender) *Reporter {
	return &Reporter{
		otelManager: otelManager,
		lastSent:    cmap.New[time.Time](),
		now:         time.Now,
		senders:     senders,
		dedupWindow: dedupWindow,
	}
}

// NewReporterFromEnv registers a sender for every sink that has configuration in the environment.
func NewReporterFromEnv(ctx context.Context, otelManager *otel_metrics.OtelManager) (*Reporter, error) {
	var senders []AlertSender
	if token := internal.DestkitSlackAuthToken(); token != "" {
		senders = append(senders, NewSlackAlertSender(&SlackAlertConfig{
			AuthToken:  token,
			ChannelIDs: internal.DestkitSlackChannelIDs(),
		}))
	}
	if addresses := internal.DestkitAlertingEmailAddresses(); len(addresses) > 0 {
		emailSender, err := NewEmailAlertSenderWithNewClient(ctx, internal.DestkitAlertingEmailRegion(), &EmailAlertSenderConfig{
			SourceEmail:          internal.DestkitAlertingEmailSourceEmail(),
			ConfigurationSetName: internal.DestkitAlertingEmailConfigurationSet(),
			EmailAddresses:       addresses,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create email alert sender: %w", err)
		}
		senders = append(senders, emailSender)
	}
	if brokers := internal.DestkitTraceKafkaBrokers(); len(brokers) > 0 {
		kafkaSender, err := NewKafkaAlertSender(brokers, internal.DestkitTraceKafkaTopic())
		if err != nil {
			return nil, err
		}
		senders = append(senders, kafkaSender)
	}
	return NewReporter(otelManager, internal.DestkitAlertDedupWindow(), senders...), nil
}

// Report logs err with its internal detail, records it, and forwards the user-facing message
// to every sender when the error is something the user can act on. The returned error always
// contains err, joined with any sender failures.
func (r *Reporter) Report(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	logger := internal.LoggerFromCtx(ctx)
	errorClass, errInfo := GetErrorClass(ctx, err)
	msg := newTraceMessage(err, errorClass, errInfo)

	logger.Error("reporting error",
		slog.Any("error", err),
		slog.String("traceID", msg.ID),
		slog.String("failureType", string(msg.FailureType)),
		slog.String("internalMessage", msg.InternalMessage),
		slog.Any("errorClass", errorClass),
		slog.Any("errorInfo", errInfo),
	)
	r.recordError(ctx, errorClass, errInfo)

	if errorClass.ErrorAction() != NotifyUser || len(r.senders) == 0 {
		return err
	}
	if !r.shouldSend(msg) {
		logger.Info("skipped sending alert, identical alert sent recently",
			slog.String("errorClass", msg.ErrorClass), slog.Duration("dedupWindow", r.dedupWindow))
		return err
	}

	sendErrs := make([]error, len(r.senders))
	var group errgroup.Group
	for i, sender := range r.senders {
		group.Go(func() error {
			if sendErr := sender.sendAlert(ctx, msg); sendErr != nil {
				logger.Warn("failed to send alert", slog.String("sender", sender.senderName()), slog.Any("error", sendErr))
				sendErrs[i] = fmt.Errorf("%s alert sender: %w", sender.senderName(), sendErr)
			}
			return nil
		})
	}
	_ = group.Wait()
	return errors.Join(append([]error{err}, sendErrs...)...)
}

func (r *Reporter) shouldSend(msg *TraceMessage) bool {
	if r.dedupWindow <= 0 {
		return true
	}
	now := r.now()
	send := false
	r.lastSent.Upsert(msg.dedupKey(), now, func(exist bool, valueInMap time.Time, newValue time.Time) time.Time {
		if !exist || newValue.Sub(valueInMap) >= r.dedupWindow {
			send = true
			return newValue
		}
		return valueInMap
	})
	return send
}

func (r *Reporter) recordError(ctx context.Context, errorClass ErrorClass, errInfo ErrorInfo) {
	if r.otelManager == nil {
		return
	}
	errorAttributes := []attribute.KeyValue{
		attribute.Stringer(otel_metrics.ErrorClassKey, errorClass),
		attribute.Stringer(otel_metrics.ErrorActionKey, errorClass.ErrorAction()),
		attribute.Stringer(otel_metrics.ErrorSourceKey, errInfo.Source),
		attribute.String(otel_metrics.ErrorCodeKey, errInfo.Code),
		attribute.String(otel_metrics.DeploymentUidKey, internal.DestkitDeploymentUID()),
	}
	for k, v := range errInfo.AdditionalAttributes {
		errorAttributes = append(errorAttributes, attribute.String(k.String(), v))
	}
	r.otelManager.Metrics.ErrorsEmittedCounter.Add(ctx, 1, metric.WithAttributeSet(attribute.NewSet(errorAttributes...)))
}

func (r *Reporter) Close() error {
	var errs []error
	for _, sender := range r.senders {
		if closer, ok := sender.(interface{ Close() error }); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}
