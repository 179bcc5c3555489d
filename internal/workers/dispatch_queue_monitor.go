package workers

import (
	"context"
	"time"

	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/logging"
	"infinite-experiment/engagesync/internal/metrics"
)

const (
	highPendingThreshold = 1000
	highQueueThreshold   = 5000
)

// DispatchQueueMonitor reports the size of the dispatch stream and keeps it trimmed
type DispatchQueueMonitor struct {
	redisQueue *common.RedisQueueService
	streamName string
	groupName  string
	maxLen     int64
	metrics    *metrics.MetricsRegistry
}

// NewDispatchQueueMonitor creates a new queue monitor
func NewDispatchQueueMonitor(redisQueue *common.RedisQueueService, streamName, groupName string, maxLen int64, metricsReg *metrics.MetricsRegistry) *DispatchQueueMonitor {
	return &DispatchQueueMonitor{
		redisQueue: redisQueue,
		streamName: streamName,
		groupName:  groupName,
		maxLen:     maxLen,
		metrics:    metricsReg,
	}
}

// QueueStats is a point-in-time view of the dispatch stream
type QueueStats struct {
	StreamName   string
	QueueLength  int64
	PendingCount int64
	LastChecked  time.Time
}

// Start checks the stream every interval until ctx is cancelled
func (m *DispatchQueueMonitor) Start(ctx context.Context, interval time.Duration) {
	logging.Info("Starting dispatch queue monitoring", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	m.checkQueue(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("Dispatch queue monitor shutting down")
			return
		case <-ticker.C:
			m.checkQueue(ctx)
		}
	}
}

func (m *DispatchQueueMonitor) checkQueue(ctx context.Context) {
	stats, err := m.GetQueueStats(ctx)
	if err != nil {
		logging.Warn("Failed to read dispatch queue stats", "stream", m.streamName, "error", err)
		return
	}

	if m.metrics != nil {
		m.metrics.DispatchQueueLength.WithLabelValues("total").Set(float64(stats.QueueLength))
		m.metrics.DispatchQueueLength.WithLabelValues("pending").Set(float64(stats.PendingCount))
	}

	switch {
	case stats.PendingCount > highPendingThreshold:
		logging.Warn("Dispatch queue has many pending batches", "stream", m.streamName, "pending", stats.PendingCount)
	case stats.QueueLength > highQueueThreshold:
		logging.Warn("Dispatch queue is long", "stream", m.streamName, "length", stats.QueueLength)
	default:
		logging.Debug("Dispatch queue healthy", "stream", m.streamName, "length", stats.QueueLength, "pending", stats.PendingCount)
	}

	if m.maxLen > 0 && stats.QueueLength > m.maxLen {
		if err := m.redisQueue.TrimStream(ctx, m.streamName, m.maxLen); err != nil {
			logging.Warn("Failed to trim dispatch stream", "stream", m.streamName, "error", err)
		}
	}
}

// GetQueueStats reads the current length and pending count of the stream
func (m *DispatchQueueMonitor) GetQueueStats(ctx context.Context) (*QueueStats, error) {
	queueLength, err := m.redisQueue.GetQueueLength(ctx, m.streamName)
	if err != nil {
		return nil, err
	}

	pendingCount, err := m.redisQueue.GetPendingCount(ctx, m.streamName, m.groupName)
	if err != nil {
		// If consumer group doesn't exist yet, pending count is 0
		pendingCount = 0
	}

	return &QueueStats{
		StreamName:   m.streamName,
		QueueLength:  queueLength,
		PendingCount: pendingCount,
		LastChecked:  time.Now(),
	}, nil
}
