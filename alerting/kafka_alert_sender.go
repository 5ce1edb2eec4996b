package alerting

import (
	"context"
	"fmt"
	"log/slog"

	jsoniter "github.com/json-iterator/go"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kslog"
)

type kafkaProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaAlertSender publishes every trace message as JSON, keyed by error class.
type KafkaAlertSender struct {
	AlertSender
	client kafkaProducer
	topic  string
}

func NewKafkaAlertSender(brokers []string, topic string, opts ...kgo.Opt) (*KafkaAlertSender, error) {
	client, err := kgo.NewClient(append([]kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
		kgo.WithLogger(kslog.New(slog.Default())),
	}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return &KafkaAlertSender{client: client, topic: topic}, nil
}

func (k *KafkaAlertSender) senderName() string {
	return "kafka"
}

func (k *KafkaAlertSender) sendAlert(ctx context.Context, msg *TraceMessage) error {
	value, err := jsoniter.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize trace message: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(msg.ErrorClass),
		Value: value,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce trace message to topic %s: %w", k.topic, err)
	}
	return nil
}

func (k *KafkaAlertSender) Close() error {
	k.client.Close()
	return nil
}
