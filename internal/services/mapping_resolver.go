package services

import (
	"context"
	"fmt"

	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/models/dtos"
	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

// Resolution is everything needed to deliver one record
type Resolution struct {
	Definition  *gormModels.SyncDefinition
	Credentials *gormModels.PlatformCredentials
	Payload     dtos.MappedPayload
}

// MappingResolver turns a source record into a platform payload using the
// active sync configuration. It only reads.
type MappingResolver struct {
	store  common.SyncConfigReader
	policy AccessPolicy
}

func NewMappingResolver(store common.SyncConfigReader, policy AccessPolicy) *MappingResolver {
	if policy == nil {
		policy = AllowAllPolicy{}
	}
	return &MappingResolver{store: store, policy: policy}
}

// Resolve checks the sync preconditions and maps the record.
//
// A precondition failure returns a skip error (see IsSkip). A mandatory
// source field without a value returns a MANDATORY_FIELD_MISSING error.
func (r *MappingResolver) Resolve(ctx context.Context, record dtos.SourceRecord) (*Resolution, error) {
	// Step 1: Configuration store access
	if !r.policy.CanReadSyncConfig(ctx) {
		return nil, newSyncError(constants.ErrCodeConfigStoreUnreadable, "access denied", nil)
	}

	// Step 2: Active sync definition
	def, err := r.store.GetActiveSyncDefinition(ctx, record.EntityType, record.ConnectionID)
	if err != nil {
		return nil, newSyncError(constants.ErrCodeConfigStoreUnreadable, "sync definition lookup failed", err)
	}
	if !def.IsActive() {
		return nil, newSyncError(constants.ErrCodeSyncDefinitionNotActive,
			fmt.Sprintf("entity type %q, connection %q", record.EntityType, record.ConnectionID), nil)
	}

	// Step 3: Credentials
	creds, err := r.store.GetActiveCredentials(ctx)
	if err != nil {
		return nil, newSyncError(constants.ErrCodeConfigStoreUnreadable, "credentials lookup failed", err)
	}
	if !creds.IsComplete() {
		return nil, newSyncError(constants.ErrCodeCredentialsNotConfigured, "", nil)
	}

	mappings, err := r.store.GetFieldMappings(ctx, def.ID)
	if err != nil {
		return nil, newSyncError(constants.ErrCodeConfigStoreUnreadable, "field mapping lookup failed", err)
	}
	// a definition saved before its mapping set has no identity field to send
	if len(mappings) == 0 {
		return nil, newSyncError(constants.ErrCodeMappingsNotConfigured, fmt.Sprintf("sync definition %s", def.ID), nil)
	}

	payload, err := MapFields(record, mappings)
	if err != nil {
		return nil, err
	}

	return &Resolution{
		Definition:  def,
		Credentials: creds,
		Payload:     payload,
	}, nil
}

// MapFields applies mappings to record. Values are copied as they are.
func MapFields(record dtos.SourceRecord, mappings []gormModels.FieldMapping) (dtos.MappedPayload, error) {
	payload := make(dtos.MappedPayload, len(mappings))

	for _, m := range mappings {
		value, found := record.Lookup(m.SourceField)
		if !found || value == nil {
			if m.IsMandatory {
				return nil, &SyncError{
					Code:    constants.ErrCodeMandatoryFieldMissing,
					Message: fmt.Sprintf("Mandatory field %s is missing on %s %s (maps to %s)", m.SourceField, record.EntityType, record.ID, m.TargetField),
					Details: m.SourceField,
				}
			}
			continue
		}
		payload[m.TargetField] = value
	}

	return payload, nil
}
