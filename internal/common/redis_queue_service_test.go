package common

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/engagesync/internal/models/dtos"
)

const (
	testStream = "record_sync:test"
	testGroup  = "test-workers"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisQueueService_RoundTrip(t *testing.T) {
	_, client := newTestRedis(t)
	q := NewRedisQueueService(client)
	ctx := context.Background()

	require.NoError(t, q.CreateConsumerGroup(ctx, testStream, testGroup))
	// second create is a no-op
	require.NoError(t, q.CreateConsumerGroup(ctx, testStream, testGroup))

	item := &DispatchQueueItem{
		BatchID:    "batch-1",
		EnqueuedAt: time.Now().UTC(),
		Records: []dtos.SourceRecord{
			{ID: "00Q1", EntityType: "Lead", Fields: map[string]interface{}{"Email": "a@x.com"}},
		},
	}
	require.NoError(t, q.EnqueueBatch(ctx, testStream, item))

	length, err := q.GetQueueLength(ctx, testStream)
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)

	got, msgID, err := q.DequeueBatch(ctx, testStream, testGroup, "c1", 10*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotEmpty(t, msgID)
	assert.Equal(t, "batch-1", got.BatchID)
	assert.Equal(t, "a@x.com", got.Records[0].Fields["Email"])

	pending, err := q.GetPendingCount(ctx, testStream, testGroup)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	require.NoError(t, q.Ack(ctx, testStream, testGroup, msgID))
	pending, err = q.GetPendingCount(ctx, testStream, testGroup)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)

	// nothing left for the group
	got, msgID, err = q.DequeueBatch(ctx, testStream, testGroup, "c1", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, msgID)
}

func TestRedisQueueService_MalformedMessage(t *testing.T) {
	_, client := newTestRedis(t)
	q := NewRedisQueueService(client)
	ctx := context.Background()

	require.NoError(t, q.CreateConsumerGroup(ctx, testStream, testGroup))
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: testStream,
		Values: map[string]interface{}{"data": "{not json"},
	}).Err())

	got, msgID, err := q.DequeueBatch(ctx, testStream, testGroup, "c1", 10*time.Millisecond)
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.NotEmpty(t, msgID, "message id is returned so the caller can ack it")
}

func TestRedisQueueService_TrimStream(t *testing.T) {
	_, client := newTestRedis(t)
	q := NewRedisQueueService(client)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.EnqueueBatch(ctx, testStream, &DispatchQueueItem{BatchID: "b"}))
	}
	require.NoError(t, q.TrimStream(ctx, testStream, 2))

	length, err := q.GetQueueLength(ctx, testStream)
	require.NoError(t, err)
	assert.Equal(t, int64(2), length)
}
