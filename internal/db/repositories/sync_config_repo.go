package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"infinite-experiment/engagesync/internal/constants"
	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

// ErrSyncDefinitionNotFound is returned by writes addressing a missing definition
var ErrSyncDefinitionNotFound = errors.New("sync definition not found")

// SyncConfigRepo is the GORM-backed configuration store: credentials,
// sync definitions and their field mappings.
type SyncConfigRepo struct {
	db *gorm.DB
}

func NewSyncConfigRepo(db *gorm.DB) *SyncConfigRepo {
	return &SyncConfigRepo{db: db}
}

// GetActiveCredentials fetches the single active credential set
func (r *SyncConfigRepo) GetActiveCredentials(ctx context.Context) (*gormModels.PlatformCredentials, error) {
	var creds gormModels.PlatformCredentials

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&creds).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active credentials: %w", err)
	}

	return &creds, nil
}

// GetCredentialsByDeveloperName fetches a credential set by its unique developer name
func (r *SyncConfigRepo) GetCredentialsByDeveloperName(ctx context.Context, developerName string) (*gormModels.PlatformCredentials, error) {
	var creds gormModels.PlatformCredentials

	err := r.db.WithContext(ctx).Where("developer_name = ?", developerName).First(&creds).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}

	return &creds, nil
}

// GetActiveSyncDefinition fetches the active definition for an entity type.
// An empty connectionID selects definitions not bound to any connection.
func (r *SyncConfigRepo) GetActiveSyncDefinition(ctx context.Context, entityType, connectionID string) (*gormModels.SyncDefinition, error) {
	var def gormModels.SyncDefinition

	err := r.db.WithContext(ctx).
		Where("source_entity_type = ? AND connection_id = ? AND status = ?",
			entityType, connectionID, constants.SyncStatusActive).
		Order("created_at ASC").
		First(&def).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active sync definition: %w", err)
	}

	return &def, nil
}

// GetSyncDefinitionByID fetches a definition regardless of status
func (r *SyncConfigRepo) GetSyncDefinitionByID(ctx context.Context, id string) (*gormModels.SyncDefinition, error) {
	var def gormModels.SyncDefinition

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sync definition: %w", err)
	}

	return &def, nil
}

// GetFieldMappings returns the mappings of a definition in their saved order
func (r *SyncConfigRepo) GetFieldMappings(ctx context.Context, syncDefinitionID string) ([]gormModels.FieldMapping, error) {
	var mappings []gormModels.FieldMapping

	err := r.db.WithContext(ctx).
		Where("sync_definition_id = ?", syncDefinitionID).
		Order("position ASC").
		Find(&mappings).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get field mappings: %w", err)
	}

	return mappings, nil
}

// SaveCredentials creates or updates a credential set. Activating a set
// deactivates every other one in the same transaction.
func (r *SyncConfigRepo) SaveCredentials(ctx context.Context, creds *gormModels.PlatformCredentials) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if creds.IsActive {
			q := tx.Model(&gormModels.PlatformCredentials{}).Where("is_active = ?", true)
			if creds.ID != "" {
				q = q.Where("id <> ?", creds.ID)
			}
			if err := q.Update("is_active", false).Error; err != nil {
				return fmt.Errorf("failed to deactivate credentials: %w", err)
			}
		}

		if err := tx.Save(creds).Error; err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}
		return nil
	})
}

// SaveSyncDefinition creates or updates a sync definition
func (r *SyncConfigRepo) SaveSyncDefinition(ctx context.Context, def *gormModels.SyncDefinition) error {
	if err := r.db.WithContext(ctx).Save(def).Error; err != nil {
		return fmt.Errorf("failed to save sync definition: %w", err)
	}
	return nil
}

// DeleteSyncDefinition removes a definition together with its mappings
func (r *SyncConfigRepo) DeleteSyncDefinition(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sync_definition_id = ?", id).Delete(&gormModels.FieldMapping{}).Error; err != nil {
			return fmt.Errorf("failed to delete field mappings: %w", err)
		}

		result := tx.Where("id = ?", id).Delete(&gormModels.SyncDefinition{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete sync definition: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrSyncDefinitionNotFound
		}
		return nil
	})
}

// ReplaceFieldMappings swaps the whole mapping set of a definition.
// validate runs inside the transaction after the delete; a non-nil error
// rolls the delete back and leaves the previous set in place.
func (r *SyncConfigRepo) ReplaceFieldMappings(
	ctx context.Context,
	syncDefinitionID string,
	mappings []gormModels.FieldMapping,
	validate func([]gormModels.FieldMapping) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&gormModels.SyncDefinition{}).Where("id = ?", syncDefinitionID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check sync definition: %w", err)
		}
		if count == 0 {
			return ErrSyncDefinitionNotFound
		}

		if err := tx.Where("sync_definition_id = ?", syncDefinitionID).Delete(&gormModels.FieldMapping{}).Error; err != nil {
			return fmt.Errorf("failed to delete field mappings: %w", err)
		}

		if validate != nil {
			if err := validate(mappings); err != nil {
				return err
			}
		}

		for i := range mappings {
			mappings[i].SyncDefinitionID = syncDefinitionID
			mappings[i].Position = i
		}

		if len(mappings) > 0 {
			if err := tx.Create(&mappings).Error; err != nil {
				return fmt.Errorf("failed to insert field mappings: %w", err)
			}
		}
		return nil
	})
}
