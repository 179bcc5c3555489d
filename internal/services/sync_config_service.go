package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/db/repositories"
	"infinite-experiment/engagesync/internal/logging"
	"infinite-experiment/engagesync/internal/models/dtos"
	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

// SyncConfigStore is the write side of the configuration store
type SyncConfigStore interface {
	GetCredentialsByDeveloperName(ctx context.Context, developerName string) (*gormModels.PlatformCredentials, error)
	GetSyncDefinitionByID(ctx context.Context, id string) (*gormModels.SyncDefinition, error)
	SaveCredentials(ctx context.Context, creds *gormModels.PlatformCredentials) error
	SaveSyncDefinition(ctx context.Context, def *gormModels.SyncDefinition) error
	DeleteSyncDefinition(ctx context.Context, id string) error
	ReplaceFieldMappings(ctx context.Context, syncDefinitionID string, mappings []gormModels.FieldMapping, validate func([]gormModels.FieldMapping) error) error
}

// SyncConfigEvictor drops cached configuration after a write
type SyncConfigEvictor interface {
	EvictCredentials()
	EvictSyncDefinitions()
	EvictFieldMappings(syncDefinitionID string)
}

type SyncConfigService struct {
	store   SyncConfigStore
	evictor SyncConfigEvictor
}

func NewSyncConfigService(store SyncConfigStore, evictor SyncConfigEvictor) *SyncConfigService {
	if evictor == nil {
		evictor = noopEvictor{}
	}
	return &SyncConfigService{store: store, evictor: evictor}
}

type noopEvictor struct{}

func (noopEvictor) EvictCredentials()         {}
func (noopEvictor) EvictSyncDefinitions()     {}
func (noopEvictor) EvictFieldMappings(string) {}

// SaveCredentials creates or updates the credential set named by
// req.DeveloperName. Activating it deactivates every other set.
func (s *SyncConfigService) SaveCredentials(ctx context.Context, req *dtos.SaveCredentialsRequest) (*gormModels.PlatformCredentials, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.DeveloperName) == "" {
		return nil, &ConfigError{
			Code:    constants.ErrCodeConfigMalformed,
			Message: "name and developer_name are required",
		}
	}

	creds, err := s.store.GetCredentialsByDeveloperName(ctx, req.DeveloperName)
	if err != nil {
		return nil, &ConfigError{
			Code:    constants.ErrCodeConfigPersistence,
			Message: "Failed to check existing credentials",
			Err:     err,
		}
	}
	if creds == nil {
		creds = &gormModels.PlatformCredentials{DeveloperName: req.DeveloperName}
	}

	creds.Name = req.Name
	creds.APIURL = strings.TrimSpace(req.APIURL)
	creds.AccountID = strings.TrimSpace(req.AccountID)
	creds.Passcode = req.Passcode
	creds.Region = strings.TrimSpace(req.Region)
	creds.IsActive = req.IsActive

	if creds.IsActive && !creds.IsComplete() {
		return nil, &ConfigError{
			Code:    constants.ErrCodeConfigMalformed,
			Message: "active credentials need account_id, passcode and either api_url or region",
		}
	}

	if err := s.store.SaveCredentials(ctx, creds); err != nil {
		return nil, &ConfigError{
			Code:    constants.ErrCodeConfigPersistence,
			Message: "Failed to save credentials",
			Err:     err,
		}
	}

	s.evictor.EvictCredentials()
	logging.Info("Credentials saved", "developer_name", creds.DeveloperName, "active", creds.IsActive)

	return creds, nil
}

// SaveSyncDefinition creates a definition, or updates it when req.ID is set
func (s *SyncConfigService) SaveSyncDefinition(ctx context.Context, req *dtos.SaveSyncDefinitionRequest) (*gormModels.SyncDefinition, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ConfigError{Code: constants.ErrCodeConfigMalformed, Message: "name is required"}
	}
	if strings.TrimSpace(req.SourceEntityType) == "" {
		return nil, &ConfigError{Code: constants.ErrCodeConfigMalformed, Message: "source_entity_type is required"}
	}

	status := constants.SyncStatus(req.Status)
	if status == "" {
		status = constants.SyncStatusInactive
	}
	if !status.IsValid() {
		return nil, &ConfigError{
			Code:    constants.ErrCodeConfigMalformed,
			Message: fmt.Sprintf("invalid status '%s' (allowed: Active, Inactive)", req.Status),
		}
	}

	def := &gormModels.SyncDefinition{}
	if req.ID != "" {
		existing, err := s.store.GetSyncDefinitionByID(ctx, req.ID)
		if err != nil {
			return nil, &ConfigError{
				Code:    constants.ErrCodeConfigPersistence,
				Message: "Failed to load sync definition",
				Err:     err,
			}
		}
		if existing == nil {
			return nil, &ConfigError{
				Code:    constants.ErrCodeSyncDefinitionNotFound,
				Message: constants.GetErrorMessage(constants.ErrCodeSyncDefinitionNotFound),
			}
		}
		def = existing
	}

	def.Name = req.Name
	def.SyncType = req.SyncType
	def.SourceEntityType = strings.TrimSpace(req.SourceEntityType)
	def.TargetEntityType = req.TargetEntityType
	def.Status = status
	def.ConnectionID = req.ConnectionID

	if err := s.store.SaveSyncDefinition(ctx, def); err != nil {
		return nil, &ConfigError{
			Code:    constants.ErrCodeConfigPersistence,
			Message: "Failed to save sync definition",
			Err:     err,
		}
	}

	s.evictor.EvictSyncDefinitions()
	logging.Info("Sync definition saved", "id", def.ID, "entity_type", def.SourceEntityType, "status", def.Status)

	return def, nil
}

// DeleteSyncDefinition removes a definition and its mappings
func (s *SyncConfigService) DeleteSyncDefinition(ctx context.Context, id string) error {
	if err := s.store.DeleteSyncDefinition(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrSyncDefinitionNotFound) {
			return &ConfigError{
				Code:    constants.ErrCodeSyncDefinitionNotFound,
				Message: constants.GetErrorMessage(constants.ErrCodeSyncDefinitionNotFound),
				Err:     err,
			}
		}
		return &ConfigError{
			Code:    constants.ErrCodeConfigPersistence,
			Message: "Failed to delete sync definition",
			Err:     err,
		}
	}

	s.evictor.EvictSyncDefinitions()
	s.evictor.EvictFieldMappings(id)
	logging.Info("Sync definition deleted", "id", id)

	return nil
}

// ReplaceFieldMappings swaps the mapping set of a definition in one
// transaction. An invalid set leaves the previous one untouched.
func (s *SyncConfigService) ReplaceFieldMappings(ctx context.Context, syncDefinitionID string, inputs []dtos.FieldMappingInput) ([]gormModels.FieldMapping, error) {
	mappings := make([]gormModels.FieldMapping, 0, len(inputs))
	for _, in := range inputs {
		mappings = append(mappings, gormModels.FieldMapping{
			TargetField: strings.TrimSpace(in.TargetField),
			SourceField: strings.TrimSpace(in.SourceField),
			DataType:    in.DataType,
			IsMandatory: in.IsMandatory,
		})
	}

	err := s.store.ReplaceFieldMappings(ctx, syncDefinitionID, mappings, ValidateFieldMappings)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			return nil, cfgErr
		}
		if errors.Is(err, repositories.ErrSyncDefinitionNotFound) {
			return nil, &ConfigError{
				Code:    constants.ErrCodeSyncDefinitionNotFound,
				Message: constants.GetErrorMessage(constants.ErrCodeSyncDefinitionNotFound),
				Err:     err,
			}
		}
		return nil, &ConfigError{
			Code:    constants.ErrCodeConfigPersistence,
			Message: "Failed to replace field mappings",
			Err:     err,
		}
	}

	s.evictor.EvictFieldMappings(syncDefinitionID)
	logging.Info("Field mappings replaced", "sync_definition_id", syncDefinitionID, "count", len(mappings))

	return mappings, nil
}

// ValidateFieldMappings checks a complete mapping set: every rule names both
// fields, target names are unique ignoring case, and exactly one rule is
// mandatory.
func ValidateFieldMappings(mappings []gormModels.FieldMapping) error {
	if len(mappings) == 0 {
		return &ConfigError{
			Code:    constants.ErrCodeConfigMalformed,
			Message: "at least one field mapping is required",
		}
	}

	seen := make(map[string]bool, len(mappings))
	mandatory := 0

	for i, m := range mappings {
		if strings.TrimSpace(m.TargetField) == "" {
			return &ConfigError{
				Code:    constants.ErrCodeConfigMalformed,
				Message: fmt.Sprintf("mappings[%d]: target_field is required", i),
			}
		}
		if strings.TrimSpace(m.SourceField) == "" {
			return &ConfigError{
				Code:    constants.ErrCodeConfigMalformed,
				Message: fmt.Sprintf("mappings[%d]: source_field is required", i),
			}
		}

		key := strings.ToLower(m.TargetField)
		if seen[key] {
			return &ConfigError{
				Code:    constants.ErrCodeDuplicateTargetField,
				Message: fmt.Sprintf("mappings[%d]: target_field '%s' is used more than once", i, m.TargetField),
			}
		}
		seen[key] = true

		if m.IsMandatory {
			mandatory++
		}
	}

	if mandatory != 1 {
		return &ConfigError{
			Code:    constants.ErrCodeMandatoryMappingCount,
			Message: fmt.Sprintf("%s (found %d)", constants.GetErrorMessage(constants.ErrCodeMandatoryMappingCount), mandatory),
		}
	}

	return nil
}
