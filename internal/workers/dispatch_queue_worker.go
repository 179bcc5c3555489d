package workers

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/logging"
	"infinite-experiment/engagesync/internal/services"
)

// DispatchQueueWorker consumes dispatch batches from the Redis stream
type DispatchQueueWorker struct {
	workerID   string
	redisQueue *common.RedisQueueService
	processor  BatchProcessor
	streamName string
	groupName  string
	blockTime  time.Duration
}

// NewDispatchQueueWorker creates a new dispatch queue worker
func NewDispatchQueueWorker(
	workerID string,
	redisQueue *common.RedisQueueService,
	processor BatchProcessor,
	streamName string,
	groupName string,
	blockTime time.Duration,
) *DispatchQueueWorker {
	return &DispatchQueueWorker{
		workerID:   workerID,
		redisQueue: redisQueue,
		processor:  processor,
		streamName: streamName,
		groupName:  groupName,
		blockTime:  blockTime,
	}
}

// Start runs numWorkers consumers of the group until ctx is cancelled
func (w *DispatchQueueWorker) Start(ctx context.Context, numWorkers int) error {
	logging.Info("Starting dispatch queue workers",
		"workers", numWorkers,
		"worker_id", w.workerID,
		"stream", w.streamName,
	)

	// Ensure consumer group exists
	if err := w.redisQueue.CreateConsumerGroup(ctx, w.streamName, w.groupName); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		consumerName := fmt.Sprintf("%s-worker-%d", w.workerID, i)
		g.Go(func() error {
			w.processQueue(gctx, consumerName)
			return nil
		})
	}

	err := g.Wait()
	logging.Info("All dispatch queue workers stopped", "worker_id", w.workerID)
	return err
}

// processQueue reads batches until ctx is cancelled. Each message is acked
// before its batch runs, so a crash mid-batch loses the batch rather than
// replaying it.
func (w *DispatchQueueWorker) processQueue(ctx context.Context, consumerName string) {
	processedCount := 0
	errorCount := 0

	for {
		select {
		case <-ctx.Done():
			logging.Info("Dispatch consumer shutting down",
				"consumer", consumerName,
				"processed", processedCount,
				"errors", errorCount,
			)
			return
		default:
		}

		item, messageID, err := w.redisQueue.DequeueBatch(ctx, w.streamName, w.groupName, consumerName, w.blockTime)
		if messageID != "" {
			if ackErr := w.redisQueue.Ack(context.WithoutCancel(ctx), w.streamName, w.groupName, messageID); ackErr != nil {
				logging.Warn("Failed to acknowledge message", "consumer", consumerName, "message_id", messageID, "error", ackErr)
			}
		}

		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			errorCount++
			logging.Error("Error dequeuing batch", "consumer", consumerName, "message_id", messageID, "error", err)
			if messageID == "" {
				sleepCtx(ctx, time.Second)
			}
			continue
		}

		if item == nil {
			// No messages available (timeout), continue loop
			continue
		}

		// the message is acked, so the batch must finish even during shutdown
		w.processor.ProcessBatch(services.ContextWithBatchID(context.WithoutCancel(ctx), item.BatchID), item.Records)
		processedCount++
	}
}

// sleepCtx waits for d or until ctx is done
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
