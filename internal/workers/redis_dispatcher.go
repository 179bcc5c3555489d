package workers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/logging"
	"infinite-experiment/engagesync/internal/metrics"
	"infinite-experiment/engagesync/internal/models/dtos"
)

const enqueueTimeout = 5 * time.Second

// RedisDispatcher publishes batches to the dispatch stream, where a
// DispatchQueueWorker in any instance picks them up.
type RedisDispatcher struct {
	queue      *common.RedisQueueService
	streamName string
	metrics    *metrics.MetricsRegistry
}

var _ Dispatcher = (*RedisDispatcher)(nil)

func NewRedisDispatcher(queue *common.RedisQueueService, streamName string, metricsReg *metrics.MetricsRegistry) *RedisDispatcher {
	return &RedisDispatcher{
		queue:      queue,
		streamName: streamName,
		metrics:    metricsReg,
	}
}

// Dispatch adds the batch to the stream. A failed XADD drops the batch.
func (d *RedisDispatcher) Dispatch(ctx context.Context, records []dtos.SourceRecord) {
	if len(records) == 0 {
		return
	}

	item := &common.DispatchQueueItem{
		BatchID:    uuid.New().String(),
		EnqueuedAt: time.Now().UTC(),
		Records:    records,
	}

	// the caller's request may end right after this returns
	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()

	if err := d.queue.EnqueueBatch(enqueueCtx, d.streamName, item); err != nil {
		if d.metrics != nil {
			d.metrics.DispatchBatchesDropped.Inc()
		}
		logging.Error("Failed to enqueue batch, dropping it",
			"batch_id", item.BatchID,
			"records", len(records),
			"error", err,
		)
		return
	}

	if d.metrics != nil {
		d.metrics.DispatchBatchesTotal.WithLabelValues(constants.DispatchBackendRedis).Inc()
	}
	logging.Debug("Batch enqueued", "batch_id", item.BatchID, "stream", d.streamName)
}
