package common

import (
	"context"
	"fmt"
	"time"

	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/metrics"
	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

// SyncConfigReader is the read side of the configuration store
type SyncConfigReader interface {
	GetActiveCredentials(ctx context.Context) (*gormModels.PlatformCredentials, error)
	GetActiveSyncDefinition(ctx context.Context, entityType, connectionID string) (*gormModels.SyncDefinition, error)
	GetFieldMappings(ctx context.Context, syncDefinitionID string) ([]gormModels.FieldMapping, error)
}

// CachedSyncConfig is a read-through cache in front of the configuration store.
// Absent rows are cached too; writers call the Evict methods.
type CachedSyncConfig struct {
	store   SyncConfigReader
	cache   CacheInterface
	ttl     time.Duration
	metrics *metrics.MetricsRegistry
}

var _ SyncConfigReader = (*CachedSyncConfig)(nil)

func NewCachedSyncConfig(store SyncConfigReader, cache CacheInterface, ttl time.Duration) *CachedSyncConfig {
	return &CachedSyncConfig{store: store, cache: cache, ttl: ttl}
}

// WithMetrics enables hit/miss counting
func (c *CachedSyncConfig) WithMetrics(m *metrics.MetricsRegistry) *CachedSyncConfig {
	c.metrics = m
	return c
}

func (c *CachedSyncConfig) load(key string, pattern constants.CachePrefix, loader func() (any, error)) (any, error) {
	if val, found := c.cache.Get(key); found {
		if c.metrics != nil {
			c.metrics.CacheHitsTotal.WithLabelValues(string(pattern)).Inc()
		}
		return val, nil
	}
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.WithLabelValues(string(pattern)).Inc()
	}

	// errors are not cached; the next read goes back to the store
	val, err := loader()
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, val, c.ttl)
	return val, nil
}

func (c *CachedSyncConfig) GetActiveCredentials(ctx context.Context) (*gormModels.PlatformCredentials, error) {
	val, err := c.load(string(constants.CachePrefixCredentials), constants.CachePrefixCredentials, func() (any, error) {
		return c.store.GetActiveCredentials(ctx)
	})
	if err != nil {
		return nil, err
	}
	creds, _ := val.(*gormModels.PlatformCredentials)
	return creds, nil
}

func (c *CachedSyncConfig) GetActiveSyncDefinition(ctx context.Context, entityType, connectionID string) (*gormModels.SyncDefinition, error) {
	key := fmt.Sprintf("%s%s:%s", constants.CachePrefixSyncDefinition, entityType, connectionID)
	val, err := c.load(key, constants.CachePrefixSyncDefinition, func() (any, error) {
		return c.store.GetActiveSyncDefinition(ctx, entityType, connectionID)
	})
	if err != nil {
		return nil, err
	}
	def, _ := val.(*gormModels.SyncDefinition)
	return def, nil
}

func (c *CachedSyncConfig) GetFieldMappings(ctx context.Context, syncDefinitionID string) ([]gormModels.FieldMapping, error) {
	key := string(constants.CachePrefixFieldMappings) + syncDefinitionID
	val, err := c.load(key, constants.CachePrefixFieldMappings, func() (any, error) {
		return c.store.GetFieldMappings(ctx, syncDefinitionID)
	})
	if err != nil {
		return nil, err
	}
	mappings, _ := val.([]gormModels.FieldMapping)
	return mappings, nil
}

// EvictCredentials forgets the cached active credentials
func (c *CachedSyncConfig) EvictCredentials() {
	c.cache.Delete(string(constants.CachePrefixCredentials))
}

// EvictSyncDefinitions forgets every cached definition lookup
func (c *CachedSyncConfig) EvictSyncDefinitions() {
	c.cache.DeletePrefix(string(constants.CachePrefixSyncDefinition))
}

// EvictFieldMappings forgets the cached mapping set of one definition
func (c *CachedSyncConfig) EvictFieldMappings(syncDefinitionID string) {
	c.cache.Delete(string(constants.CachePrefixFieldMappings) + syncDefinitionID)
}
