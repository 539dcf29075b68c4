package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// KafkaConfig holds configuration for the alert topic.
type KafkaConfig struct {
	// Brokers is a comma separated list of host:port. Empty disables Kafka.
	Brokers string `mapstructure:"brokers" default:""`
	// Topic receives the alert messages.
	Topic string `mapstructure:"topic" default:"inventory-alerts"`
}

// BrokerList splits Brokers into addresses, dropping empty entries.
func (c KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Enabled reports whether at least one broker is configured.
func (c KafkaConfig) Enabled() bool {
	return len(c.BrokerList()) > 0
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes messages as JSON, keyed by kind.
type KafkaNotifier struct {
	writer messageWriter
}

// NewKafkaNotifier creates a synchronous producer that waits for all replicas.
func NewKafkaNotifier(cfg KafkaConfig) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.BrokerList()...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Send implements Notifier.
func (n *KafkaNotifier) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	carrier := headerCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.Kind),
		Value:   payload,
		Headers: carrier.headers(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s alert: %w", msg.Kind, err)
	}
	return nil
}

// Close flushes and closes the producer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// headerCarrier adapts Kafka headers to the OpenTelemetry propagator.
type headerCarrier map[string]string

var _ propagation.TextMapCarrier = headerCarrier{}

func (c headerCarrier) Get(key string) string { return c[key] }

func (c headerCarrier) Set(key, value string) { c[key] = value }

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

func (c headerCarrier) headers() []kafka.Header {
	headers := make([]kafka.Header, 0, len(c))
	for k, v := range c {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return headers
}
