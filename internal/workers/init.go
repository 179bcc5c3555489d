package workers

import (
	"context"
	"os"
	"sync"
	"time"

	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/config"
	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/logging"
	"infinite-experiment/engagesync/internal/metrics"
)

const (
	monitorInterval = 30 * time.Second
	maxStreamLength = 10000
)

type WorkersContainer struct {
	Dispatcher Dispatcher

	wg sync.WaitGroup
}

// Wait blocks until every worker has returned or ctx is done. Workers return
// once the context passed to InitWorkers is cancelled and their current
// batch has finished.
func (c *WorkersContainer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *WorkersContainer) run(name string, fn func() error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := fn(); err != nil {
			logging.Error(name+" exited", "error", err)
		}
	}()
}

// InitWorkers starts the background workers for the configured dispatch
// backend. They run until ctx is cancelled. redisQueue is only used by the
// redis backend.
func InitWorkers(
	ctx context.Context,
	cfg config.DispatchConfig,
	processor BatchProcessor,
	redisQueue *common.RedisQueueService,
	metricsReg *metrics.MetricsRegistry,
) *WorkersContainer {
	wc := &WorkersContainer{}

	if cfg.Backend == constants.DispatchBackendRedis {
		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "engagesync"
		}

		qWorker := NewDispatchQueueWorker(hostname, redisQueue, processor,
			constants.DispatchStreamName, constants.DispatchConsumerGroup, cfg.BlockTime)
		monitor := NewDispatchQueueMonitor(redisQueue,
			constants.DispatchStreamName, constants.DispatchConsumerGroup, maxStreamLength, metricsReg)

		wc.run("Dispatch queue worker", func() error { return qWorker.Start(ctx, cfg.Workers) })
		go monitor.Start(ctx, monitorInterval)

		wc.Dispatcher = NewRedisDispatcher(redisQueue, constants.DispatchStreamName, metricsReg)
		return wc
	}

	local := NewLocalDispatcher(processor, cfg.Workers, cfg.QueueSize, metricsReg)
	wc.run("Local dispatch workers", func() error { return local.Start(ctx) })

	wc.Dispatcher = local
	return wc
}
