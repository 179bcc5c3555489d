package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/metrics"
	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

type countingStore struct {
	credsCalls   int
	defCalls     int
	mappingCalls int
	creds        *gormModels.PlatformCredentials
	def          *gormModels.SyncDefinition
	mappings     []gormModels.FieldMapping
	credsErr     error
}

func (s *countingStore) GetActiveCredentials(ctx context.Context) (*gormModels.PlatformCredentials, error) {
	s.credsCalls++
	return s.creds, s.credsErr
}

func (s *countingStore) GetActiveSyncDefinition(ctx context.Context, entityType, connectionID string) (*gormModels.SyncDefinition, error) {
	s.defCalls++
	return s.def, nil
}

func (s *countingStore) GetFieldMappings(ctx context.Context, syncDefinitionID string) ([]gormModels.FieldMapping, error) {
	s.mappingCalls++
	return s.mappings, nil
}

func TestCachedSyncConfig_ReadThrough(t *testing.T) {
	store := &countingStore{
		creds:    &gormModels.PlatformCredentials{AccountID: "A", Passcode: "P", Region: "eu1"},
		def:      &gormModels.SyncDefinition{ID: "def-1", SourceEntityType: constants.EntityLead},
		mappings: []gormModels.FieldMapping{{TargetField: "identity", SourceField: "Email", IsMandatory: true}},
	}
	cached := NewCachedSyncConfig(store, NewCacheService(time.Minute, time.Minute), time.Minute).
		WithMetrics(metrics.NewIsolatedRegistry())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		creds, err := cached.GetActiveCredentials(ctx)
		require.NoError(t, err)
		assert.Equal(t, "A", creds.AccountID)

		def, err := cached.GetActiveSyncDefinition(ctx, constants.EntityLead, "")
		require.NoError(t, err)
		assert.Equal(t, "def-1", def.ID)

		mappings, err := cached.GetFieldMappings(ctx, "def-1")
		require.NoError(t, err)
		assert.Len(t, mappings, 1)
	}

	assert.Equal(t, 1, store.credsCalls)
	assert.Equal(t, 1, store.defCalls)
	assert.Equal(t, 1, store.mappingCalls)
}

func TestCachedSyncConfig_CachesAbsence(t *testing.T) {
	store := &countingStore{}
	cached := NewCachedSyncConfig(store, NewCacheService(time.Minute, time.Minute), time.Minute)
	ctx := context.Background()

	def, err := cached.GetActiveSyncDefinition(ctx, "Contact", "")
	require.NoError(t, err)
	assert.Nil(t, def)

	def, err = cached.GetActiveSyncDefinition(ctx, "Contact", "")
	require.NoError(t, err)
	assert.Nil(t, def)
	assert.Equal(t, 1, store.defCalls)
}

func TestCachedSyncConfig_ErrorsAreNotCached(t *testing.T) {
	store := &countingStore{credsErr: errors.New("db down")}
	cached := NewCachedSyncConfig(store, NewCacheService(time.Minute, time.Minute), time.Minute)
	ctx := context.Background()

	_, err := cached.GetActiveCredentials(ctx)
	assert.Error(t, err)

	store.credsErr = nil
	store.creds = &gormModels.PlatformCredentials{AccountID: "B"}
	creds, err := cached.GetActiveCredentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", creds.AccountID)
	assert.Equal(t, 2, store.credsCalls)
}

func TestCachedSyncConfig_Evict(t *testing.T) {
	store := &countingStore{
		def:      &gormModels.SyncDefinition{ID: "def-1"},
		creds:    &gormModels.PlatformCredentials{AccountID: "A"},
		mappings: []gormModels.FieldMapping{},
	}
	cached := NewCachedSyncConfig(store, NewCacheService(time.Minute, time.Minute), time.Minute)
	ctx := context.Background()

	cached.GetActiveSyncDefinition(ctx, "Lead", "")
	cached.GetActiveSyncDefinition(ctx, "Contact", "conn-1")
	cached.GetActiveCredentials(ctx)
	cached.GetFieldMappings(ctx, "def-1")

	cached.EvictSyncDefinitions()
	cached.EvictCredentials()
	cached.EvictFieldMappings("def-1")

	cached.GetActiveSyncDefinition(ctx, "Lead", "")
	cached.GetActiveSyncDefinition(ctx, "Contact", "conn-1")
	cached.GetActiveCredentials(ctx)
	cached.GetFieldMappings(ctx, "def-1")

	assert.Equal(t, 4, store.defCalls)
	assert.Equal(t, 2, store.credsCalls)
	assert.Equal(t, 2, store.mappingCalls)
}
