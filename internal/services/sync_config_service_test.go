package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/db/repositories"
	"infinite-experiment/engagesync/internal/models/dtos"
	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

func assertConfigError(t *testing.T, err error, code string) {
	t.Helper()
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr), "expected *ConfigError, got %v", err)
	assert.Equal(t, code, cfgErr.Code)
}

func TestValidateFieldMappings(t *testing.T) {
	tests := []struct {
		name     string
		mappings []gormModels.FieldMapping
		wantCode string
	}{
		{
			name: "valid",
			mappings: []gormModels.FieldMapping{
				{TargetField: "identity", SourceField: "Email", IsMandatory: true},
				{TargetField: "Name", SourceField: "LastName"},
			},
		},
		{
			name:     "empty set",
			wantCode: constants.ErrCodeConfigMalformed,
		},
		{
			name: "blank source",
			mappings: []gormModels.FieldMapping{
				{TargetField: "identity", SourceField: " ", IsMandatory: true},
			},
			wantCode: constants.ErrCodeConfigMalformed,
		},
		{
			name: "duplicate target ignoring case",
			mappings: []gormModels.FieldMapping{
				{TargetField: "identity", SourceField: "Email", IsMandatory: true},
				{TargetField: "Identity", SourceField: "Phone"},
			},
			wantCode: constants.ErrCodeDuplicateTargetField,
		},
		{
			name: "no mandatory mapping",
			mappings: []gormModels.FieldMapping{
				{TargetField: "identity", SourceField: "Email"},
			},
			wantCode: constants.ErrCodeMandatoryMappingCount,
		},
		{
			name: "two mandatory mappings",
			mappings: []gormModels.FieldMapping{
				{TargetField: "identity", SourceField: "Email", IsMandatory: true},
				{TargetField: "phone", SourceField: "Phone", IsMandatory: true},
			},
			wantCode: constants.ErrCodeMandatoryMappingCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldMappings(tt.mappings)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assertConfigError(t, err, tt.wantCode)
		})
	}
}

func TestSyncConfigService_ReplaceFieldMappings(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repositories.NewSyncConfigRepo(db)
	def := seedLeadConfig(t, repo, "https://example.test")
	svc := NewSyncConfigService(repo, nil)

	t.Run("invalid set keeps the previous one", func(t *testing.T) {
		_, err := svc.ReplaceFieldMappings(ctx, def.ID, []dtos.FieldMappingInput{
			{TargetField: "identity", SourceField: "Email"},
		})
		assertConfigError(t, err, constants.ErrCodeMandatoryMappingCount)

		mappings, err := repo.GetFieldMappings(ctx, def.ID)
		require.NoError(t, err)
		require.Len(t, mappings, 2)
		assert.Equal(t, "customer_id", mappings[0].TargetField)
	})

	t.Run("valid set replaces", func(t *testing.T) {
		saved, err := svc.ReplaceFieldMappings(ctx, def.ID, []dtos.FieldMappingInput{
			{TargetField: " identity ", SourceField: "Email", IsMandatory: true},
		})
		require.NoError(t, err)
		require.Len(t, saved, 1)

		mappings, err := repo.GetFieldMappings(ctx, def.ID)
		require.NoError(t, err)
		require.Len(t, mappings, 1)
		assert.Equal(t, "identity", mappings[0].TargetField)
	})

	t.Run("unknown definition", func(t *testing.T) {
		_, err := svc.ReplaceFieldMappings(ctx, "missing", []dtos.FieldMappingInput{
			{TargetField: "identity", SourceField: "Email", IsMandatory: true},
		})
		assertConfigError(t, err, constants.ErrCodeSyncDefinitionNotFound)
	})
}

func TestSyncConfigService_SaveCredentials(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repositories.NewSyncConfigRepo(db)
	svc := NewSyncConfigService(repo, nil)

	t.Run("rejects incomplete active credentials", func(t *testing.T) {
		_, err := svc.SaveCredentials(ctx, &dtos.SaveCredentialsRequest{
			Name:          "Primary",
			DeveloperName: "primary",
			AccountID:     "ACC",
			IsActive:      true,
		})
		assertConfigError(t, err, constants.ErrCodeConfigMalformed)
	})

	t.Run("updates by developer name and keeps one active", func(t *testing.T) {
		first, err := svc.SaveCredentials(ctx, &dtos.SaveCredentialsRequest{
			Name: "Primary", DeveloperName: "primary", AccountID: "ACC-1", Passcode: "P1", Region: "eu1", IsActive: true,
		})
		require.NoError(t, err)

		second, err := svc.SaveCredentials(ctx, &dtos.SaveCredentialsRequest{
			Name: "Secondary", DeveloperName: "secondary", AccountID: "ACC-2", Passcode: "P2", Region: "in1", IsActive: true,
		})
		require.NoError(t, err)

		again, err := svc.SaveCredentials(ctx, &dtos.SaveCredentialsRequest{
			Name: "Primary v2", DeveloperName: "primary", AccountID: "ACC-1", Passcode: "P1b", Region: "eu1", IsActive: true,
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)

		active, err := repo.GetActiveCredentials(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.ID, active.ID)
		assert.Equal(t, "P1b", active.Passcode)

		var activeCount int64
		require.NoError(t, db.Model(&gormModels.PlatformCredentials{}).Where("is_active = ?", true).Count(&activeCount).Error)
		assert.Equal(t, int64(1), activeCount)
		assert.NotEqual(t, second.ID, active.ID)
	})
}

func TestSyncConfigService_SyncDefinitions(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repositories.NewSyncConfigRepo(db)
	cache := common.NewCachedSyncConfig(repo, common.NewCacheService(time.Minute, time.Minute), time.Minute)
	svc := NewSyncConfigService(repo, cache)

	t.Run("rejects an unknown status", func(t *testing.T) {
		_, err := svc.SaveSyncDefinition(ctx, &dtos.SaveSyncDefinitionRequest{
			Name: "Lead sync", SourceEntityType: constants.EntityLead, Status: "Paused",
		})
		assertConfigError(t, err, constants.ErrCodeConfigMalformed)
	})

	t.Run("defaults to inactive", func(t *testing.T) {
		def, err := svc.SaveSyncDefinition(ctx, &dtos.SaveSyncDefinitionRequest{
			Name: "Contact sync", SourceEntityType: constants.EntityContact,
		})
		require.NoError(t, err)
		assert.Equal(t, constants.SyncStatusInactive, def.Status)
	})

	t.Run("activation is visible through the cache", func(t *testing.T) {
		def, err := svc.SaveSyncDefinition(ctx, &dtos.SaveSyncDefinitionRequest{
			Name: "Lead sync", SourceEntityType: constants.EntityLead, Status: "Inactive",
		})
		require.NoError(t, err)

		got, err := cache.GetActiveSyncDefinition(ctx, constants.EntityLead, "")
		require.NoError(t, err)
		assert.Nil(t, got)

		_, err = svc.SaveSyncDefinition(ctx, &dtos.SaveSyncDefinitionRequest{
			ID: def.ID, Name: "Lead sync", SourceEntityType: constants.EntityLead, Status: "Active",
		})
		require.NoError(t, err)

		got, err = cache.GetActiveSyncDefinition(ctx, constants.EntityLead, "")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, def.ID, got.ID)
	})

	t.Run("update of a missing id", func(t *testing.T) {
		_, err := svc.SaveSyncDefinition(ctx, &dtos.SaveSyncDefinitionRequest{
			ID: "does-not-exist", Name: "x", SourceEntityType: constants.EntityLead,
		})
		assertConfigError(t, err, constants.ErrCodeSyncDefinitionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		def, err := svc.SaveSyncDefinition(ctx, &dtos.SaveSyncDefinitionRequest{
			Name: "Account sync", SourceEntityType: constants.EntityAccount, Status: "Active",
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteSyncDefinition(ctx, def.ID))
		assertConfigError(t, svc.DeleteSyncDefinition(ctx, def.ID), constants.ErrCodeSyncDefinitionNotFound)
	})
}
