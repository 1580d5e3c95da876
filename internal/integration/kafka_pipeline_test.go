//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/fireops-dashboard-service/internal/adapter/kafka"
	"github.com/couchcryptid/fireops-dashboard-service/internal/config"
	"github.com/couchcryptid/fireops-dashboard-service/internal/dashboard"
	"github.com/couchcryptid/fireops-dashboard-service/internal/domain"
	"github.com/couchcryptid/fireops-dashboard-service/internal/observability"
	"github.com/couchcryptid/fireops-dashboard-service/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPredictionTopic = "test-risk-predictions"

// publishedMessage holds a deserialized message read from the prediction topic.
type publishedMessage struct {
	Event   domain.PredictionEvent
	Key     string
	Headers map[string]string
}

// readPublished reads a single message from the consumer and deserializes it.
func readPublished(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from prediction topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.PredictionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal prediction message")

	return publishedMessage{
		Event:   event,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

func newConsumer(t *testing.T, broker, group string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testPredictionTopic,
		GroupID:     fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

func testConfig(broker string) *config.Config {
	return &config.Config{
		KafkaEnabled:         true,
		KafkaBrokers:         []string{broker},
		KafkaPredictionTopic: testPredictionTopic,
		BatchSize:            10,
		BatchFlushInterval:   200 * time.Millisecond,
	}
}

// TestKafkaWriter verifies that kafka.Writer publishes a prediction event with
// its key and headers intact.
func TestKafkaWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testPredictionTopic)

	writer := kafka.NewWriter(testConfig(broker), discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	predictedAt := time.Date(2025, time.December, 14, 10, 30, 0, 0, time.UTC)
	event := domain.PredictionEvent{
		ID: "8f14e45f-ceea-467a-9af0-fd3a1b0b6a2c",
		Prediction: domain.Prediction{
			Location:     "Recife",
			IncidentType: domain.TypeHazardousMaterials,
			Score:        100,
			Label:        domain.LabelIncident,
			Advisory:     domain.AdvisoryCritical,
			PredictedAt:  predictedAt,
		},
	}
	require.NoError(t, writer.LoadBatch(ctx, []domain.PredictionEvent{event}))

	pm := readPublished(ctx, t, newConsumer(t, broker, "test-writer"))
	assert.Equal(t, "Recife", pm.Key)
	assert.Equal(t, event.ID, pm.Headers["event_id"])
	assert.Equal(t, "Incident", pm.Headers["label"])
	assert.Equal(t, predictedAt.Format(time.RFC3339), pm.Headers["predicted_at"])

	assert.Equal(t, event.ID, pm.Event.ID)
	assert.Equal(t, domain.TypeHazardousMaterials, pm.Event.IncidentType)
	assert.Equal(t, 100, pm.Event.Score)
	assert.Equal(t, domain.AdvisoryCritical, pm.Event.Advisory)
	assert.True(t, predictedAt.Equal(pm.Event.PredictedAt))
}

// TestPredictionPublishEndToEnd wires Service → Pipeline → Writer against a
// real broker and checks every served prediction reaches the topic.
func TestPredictionPublishEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testPredictionTopic)

	cfg := testConfig(broker)
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(writer, discardLogger(), metrics, cfg.BatchSize, cfg.BatchFlushInterval)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	svc := dashboard.NewService(dashboard.Options{
		Predictor:   domain.NewHeuristicPredictor(domain.NoJitter),
		Sink:        p,
		DatasetSize: 100,
		DatasetSeed: 42,
	}, discardLogger(), metrics)

	requests := []struct {
		location string
		typ      string
		score    int
		label    domain.Label
	}{
		{"Recife", "Hazardous Materials", 100, domain.LabelIncident},
		{"Caruaru", "Fire", 85, domain.LabelIncident},
		{"Exu", "Inspection", 65, domain.LabelIncident},
		{"Anywhere", "False Alarm", 95, domain.LabelHoax},
	}

	served := make(map[string]domain.PredictionEvent, len(requests))
	for _, r := range requests {
		event, err := svc.Predict(ctx, r.location, r.typ)
		require.NoError(t, err)
		require.Equal(t, r.score, event.Score, r.location)
		require.Equal(t, r.label, event.Label, r.location)
		served[event.ID] = event
	}

	consumer := newConsumer(t, broker, "test-e2e")
	for range requests {
		pm := readPublished(ctx, t, consumer)
		want, ok := served[pm.Event.ID]
		require.True(t, ok, "unexpected event %s", pm.Event.ID)
		assert.Equal(t, want.Location, pm.Key)
		assert.Equal(t, want.Score, pm.Event.Score)
		assert.Equal(t, want.Label, pm.Event.Label)
		assert.Equal(t, want.Advisory, pm.Event.Advisory)
		assert.Equal(t, string(want.Label), pm.Headers["label"])
		delete(served, pm.Event.ID)
	}
	assert.Empty(t, served, "every prediction should be published once")

	pipelineCancel()
	require.NoError(t, <-errCh)
	assert.False(t, p.Running())
}

// TestPipelineShutdownFlush verifies that events still queued when the
// publisher stops are written before Run returns.
func TestPipelineShutdownFlush(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testPredictionTopic)

	cfg := testConfig(broker)
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	// Neither the batch size nor the interval is reached before shutdown.
	p := pipeline.New(writer, discardLogger(), observability.NewMetricsForTesting(), 100, time.Hour)

	predictor := domain.NewHeuristicPredictor(domain.NoJitter)
	for i, city := range []string{"Olinda", "Petrolina"} {
		require.True(t, p.Enqueue(domain.PredictionEvent{
			ID:         fmt.Sprintf("shutdown-%d", i),
			Prediction: predictor.Predict(city, domain.TypeRescue),
		}))
	}

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	require.Eventually(t, p.Running, 5*time.Second, 10*time.Millisecond)
	pipelineCancel()
	require.NoError(t, <-errCh)

	consumer := newConsumer(t, broker, "test-shutdown")
	ids := map[string]bool{}
	for range 2 {
		pm := readPublished(ctx, t, consumer)
		ids[pm.Event.ID] = true
	}
	assert.Equal(t, map[string]bool{"shutdown-0": true, "shutdown-1": true}, ids)
}
