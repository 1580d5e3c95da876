package pipeline

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/fireops-dashboard-service/internal/domain"
	"github.com/couchcryptid/fireops-dashboard-service/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second

	// queueBatches is how many full batches the queue holds before Enqueue drops.
	queueBatches = 4

	defaultFlushInterval = 500 * time.Millisecond
	shutdownFlushTimeout = 5 * time.Second
)

// BatchLoader writes multiple prediction events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.PredictionEvent) error
}

// Pipeline buffers prediction events and publishes them in batches, so the
// HTTP path never waits on the broker.
type Pipeline struct {
	loader        BatchLoader
	logger        *slog.Logger
	metrics       *observability.Metrics
	queue         chan domain.PredictionEvent
	batchSize     int
	flushInterval time.Duration
	running       atomic.Bool
}

// New creates a Pipeline that flushes when batchSize events are buffered or
// flushInterval elapses, whichever comes first.
func New(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration) *Pipeline {
	if batchSize < 1 {
		batchSize = 1
	}
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}
	return &Pipeline{
		loader:        l,
		logger:        logger,
		metrics:       metrics,
		queue:         make(chan domain.PredictionEvent, batchSize*queueBatches),
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Enqueue hands an event to the pipeline without blocking. It reports false
// and drops the event when the queue is full.
func (p *Pipeline) Enqueue(event domain.PredictionEvent) bool {
	select {
	case p.queue <- event:
		return true
	default:
		p.metrics.PredictionsDropped.Inc()
		p.logger.Warn("prediction queue full, dropping event", "id", event.ID)
		return false
	}
}

// Running reports whether Run is active.
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// Run publishes queued events until the context is cancelled, then flushes
// what is left with a bounded timeout.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("prediction publisher started", "batch_size", p.batchSize, "flush_interval", p.flushInterval)
	p.running.Store(true)
	p.metrics.PublisherRunning.Set(1)
	defer func() {
		p.running.Store(false)
		p.metrics.PublisherRunning.Set(0)
	}()

	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	batch := make([]domain.PredictionEvent, 0, p.batchSize)
	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("prediction publisher stopping", "reason", ctx.Err())
			p.shutdownFlush(ctx, batch)
			return nil
		case event := <-p.queue:
			batch = append(batch, event)
			if len(batch) < p.batchSize {
				continue
			}
		case <-ticker.C:
			if len(batch) == 0 {
				continue
			}
		}

		if !p.flush(ctx, batch, &backoff) {
			p.shutdownFlush(ctx, batch)
			return nil
		}
		batch = batch[:0]
	}
}

// flush publishes batch, retrying with exponential backoff until it succeeds.
// Returns false if the context was cancelled first.
func (p *Pipeline) flush(ctx context.Context, batch []domain.PredictionEvent, backoff *time.Duration) bool {
	for {
		if p.load(ctx, batch) {
			*backoff = initialBackoff
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		if !retry.SleepWithContext(ctx, *backoff) {
			return false
		}
		*backoff = retry.NextBackoff(*backoff, maxBackoff)
	}
}

func (p *Pipeline) load(ctx context.Context, batch []domain.PredictionEvent) bool {
	start := time.Now()
	if err := p.loader.LoadBatch(ctx, batch); err != nil {
		if ctx.Err() == nil {
			p.logger.Error("publish batch failed", "error", err, "batch_size", len(batch))
		}
		p.metrics.PredictionPublishErrors.Inc()
		return false
	}
	p.metrics.PredictionsPublished.Add(float64(len(batch)))
	p.metrics.PublishBatchSize.Observe(float64(len(batch)))
	p.metrics.PublishDuration.Observe(time.Since(start).Seconds())
	return true
}

// shutdownFlush drains the queue into batch and makes one last publish attempt.
func (p *Pipeline) shutdownFlush(ctx context.Context, batch []domain.PredictionEvent) {
drain:
	for {
		select {
		case event := <-p.queue:
			batch = append(batch, event)
		default:
			break drain
		}
	}
	if len(batch) == 0 {
		return
	}

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
	defer cancel()
	if !p.load(flushCtx, batch) {
		p.logger.Warn("prediction events lost on shutdown", "count", len(batch))
	}
}
