package workers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/logging"
	"infinite-experiment/engagesync/internal/metrics"
	"infinite-experiment/engagesync/internal/models/dtos"
	"infinite-experiment/engagesync/internal/services"
)

// LocalDispatcher runs batches on an in-process pool fed by a bounded queue.
// When the queue is full the batch is dropped.
type LocalDispatcher struct {
	queue     chan dispatchBatch
	processor BatchProcessor
	workers   int
	metrics   *metrics.MetricsRegistry
}

var _ Dispatcher = (*LocalDispatcher)(nil)

func NewLocalDispatcher(processor BatchProcessor, workers, queueSize int, metricsReg *metrics.MetricsRegistry) *LocalDispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &LocalDispatcher{
		queue:     make(chan dispatchBatch, queueSize),
		processor: processor,
		workers:   workers,
		metrics:   metricsReg,
	}
}

// Dispatch enqueues records without blocking
func (d *LocalDispatcher) Dispatch(ctx context.Context, records []dtos.SourceRecord) {
	if len(records) == 0 {
		return
	}

	batch := dispatchBatch{
		id:      uuid.New().String(),
		records: append([]dtos.SourceRecord(nil), records...),
	}

	select {
	case d.queue <- batch:
		if d.metrics != nil {
			d.metrics.DispatchBatchesTotal.WithLabelValues(constants.DispatchBackendLocal).Inc()
		}
		logging.Debug("Batch queued", "batch_id", batch.id, "records", len(records))
	default:
		if d.metrics != nil {
			d.metrics.DispatchBatchesDropped.Inc()
		}
		logging.Error("Dispatch queue full, dropping batch",
			"batch_id", batch.id,
			"records", len(records),
			"queue_size", cap(d.queue),
		)
	}
}

// Start runs the pool until ctx is cancelled. A batch already picked up runs
// to the end; batches still queued at that point are not processed.
func (d *LocalDispatcher) Start(ctx context.Context) error {
	logging.Info("Starting local dispatch workers", "workers", d.workers, "queue_size", cap(d.queue))

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		workerName := fmt.Sprintf("local-worker-%d", i)
		g.Go(func() error {
			d.run(gctx, workerName)
			return nil
		})
	}

	err := g.Wait()
	logging.Info("Local dispatch workers stopped")
	return err
}

func (d *LocalDispatcher) run(ctx context.Context, workerName string) {
	processed := 0
	for {
		select {
		case <-ctx.Done():
			logging.Info("Dispatch worker shutting down", "worker", workerName, "processed", processed)
			return
		case batch := <-d.queue:
			d.processor.ProcessBatch(services.ContextWithBatchID(context.WithoutCancel(ctx), batch.id), batch.records)
			processed++
		}
	}
}
