//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/agrimet/crop-alert-service/internal/adapter/kafka"
	"github.com/agrimet/crop-alert-service/internal/domain"
)

const testAlertTopic = "crop-alerts-test"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("crop-alert-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic provisions a single-partition topic via the controller broker.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic")
}

// TestPublisherRoundTrip verifies the publisher writes alert records that a
// plain consumer can read back with headers intact.
func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertTopic)

	now := time.Date(2025, time.July, 23, 6, 0, 0, 0, time.UTC)
	record := domain.AlertRecord{
		AlertID:     "BIH_PAT_KUM_20250723_060000",
		GeneratedAt: now,
		Location: domain.Location{
			Village:     "Kumhrar",
			District:    "Patna",
			State:       "Bihar",
			Coordinates: [2]float64{25.6008, 85.183},
		},
		Crop: domain.CropInfo{Name: "rice", Stage: "Flowering", Season: domain.SeasonKharif},
		Alert: domain.AlertDetails{
			Type:        domain.AlertHeavyRain,
			Urgency:     domain.UrgencyHigh,
			Message:     "Heavy rainfall (28.0mm) expected in next 3 days near Kumhrar, Patna.",
			ActionItems: []string{"delay_fertilizer", "check_drainage"},
			ValidUntil:  now.Add(72 * time.Hour),
		},
	}

	publisher := kafkaadapter.NewPublisher([]string{broker}, testAlertTopic, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	require.NoError(t, publisher.Publish(ctx, record))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAlertTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from alert topic")

	assert.Equal(t, []byte(record.AlertID), msg.Key)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "heavy_rain_warning", headers["alert_type"])
	assert.Equal(t, "high", headers["urgency"])
	assert.Equal(t, now.Format(time.RFC3339), headers["generated_at"])

	var got domain.AlertRecord
	require.NoError(t, json.Unmarshal(msg.Value, &got), "unmarshal alert record")
	assert.Equal(t, record.AlertID, got.AlertID)
	assert.Equal(t, record.Alert.Type, got.Alert.Type)
	assert.Equal(t, record.Location.Village, got.Location.Village)
	assert.Equal(t, record.Alert.ActionItems, got.Alert.ActionItems)
	assert.True(t, record.Alert.ValidUntil.Equal(got.Alert.ValidUntil))
}
