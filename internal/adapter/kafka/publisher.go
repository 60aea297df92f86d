// Package kafka publishes generated alerts to a Kafka topic for downstream
// delivery systems (SMS gateways, dashboards).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/agrimet/crop-alert-service/internal/domain"
)

// Publisher produces alert records to a Kafka topic.
// It implements pipeline.AlertPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the alert topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes and writes one alert, keyed by alert ID so replays of
// the same alert land on the same partition.
func (p *Publisher) Publish(ctx context.Context, record domain.AlertRecord) error {
	msg, err := serializeToMessage(record)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an AlertRecord into a Kafka message. Type and
// urgency ride in headers so consumers can filter without deserializing.
func serializeToMessage(record domain.AlertRecord) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(record.AlertID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "alert_type", Value: []byte(record.Alert.Type)},
			{Key: "urgency", Value: []byte(record.Alert.Urgency)},
			{Key: "generated_at", Value: []byte(record.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
