package common

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"infinite-experiment/engagesync/internal/logging"
)

const publishTimeout = 2 * time.Second

type evictionKind string

const (
	evictCredentials     evictionKind = "credentials"
	evictSyncDefinitions evictionKind = "sync_definitions"
	evictFieldMappings   evictionKind = "field_mappings"
)

type evictionMessage struct {
	Kind             evictionKind `json:"kind"`
	SyncDefinitionID string       `json:"sync_definition_id,omitempty"`
	Origin           string       `json:"origin"`
}

// ConfigEvictionBus evicts the local config cache and tells every other
// instance sharing the Redis server to do the same.
type ConfigEvictionBus struct {
	client     *redis.Client
	channel    string
	local      *CachedSyncConfig
	instanceID string
}

func NewConfigEvictionBus(client *redis.Client, channel string, local *CachedSyncConfig) *ConfigEvictionBus {
	return &ConfigEvictionBus{
		client:     client,
		channel:    channel,
		local:      local,
		instanceID: uuid.New().String(),
	}
}

func (b *ConfigEvictionBus) EvictCredentials() {
	b.local.EvictCredentials()
	b.publish(evictionMessage{Kind: evictCredentials})
}

func (b *ConfigEvictionBus) EvictSyncDefinitions() {
	b.local.EvictSyncDefinitions()
	b.publish(evictionMessage{Kind: evictSyncDefinitions})
}

func (b *ConfigEvictionBus) EvictFieldMappings(syncDefinitionID string) {
	b.local.EvictFieldMappings(syncDefinitionID)
	b.publish(evictionMessage{Kind: evictFieldMappings, SyncDefinitionID: syncDefinitionID})
}

// A lost message leaves peers stale until the cache TTL expires.
func (b *ConfigEvictionBus) publish(msg evictionMessage) {
	msg.Origin = b.instanceID
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error("Failed to encode cache eviction", "kind", msg.Kind, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		logging.Warn("Failed to broadcast cache eviction", "kind", msg.Kind, "channel", b.channel, "error", err)
	}
}

// Listen applies evictions published by other instances until ctx is
// cancelled. It returns once the subscription is confirmed or fails.
func (b *ConfigEvictionBus) Listen(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	logging.Info("Listening for config cache evictions", "channel", b.channel, "instance", b.instanceID)

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				b.apply(m.Payload)
			}
		}
	}()

	return nil
}

func (b *ConfigEvictionBus) apply(payload string) {
	var msg evictionMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		logging.Warn("Ignoring malformed cache eviction", "error", err)
		return
	}
	if msg.Origin == b.instanceID {
		return
	}

	switch msg.Kind {
	case evictCredentials:
		b.local.EvictCredentials()
	case evictSyncDefinitions:
		b.local.EvictSyncDefinitions()
	case evictFieldMappings:
		b.local.EvictFieldMappings(msg.SyncDefinitionID)
	default:
		logging.Warn("Ignoring unknown cache eviction", "kind", msg.Kind)
		return
	}
	logging.Debug("Applied remote cache eviction", "kind", msg.Kind, "origin", msg.Origin)
}
