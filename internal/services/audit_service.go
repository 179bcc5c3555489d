package services

import (
	"context"
	"errors"
	"fmt"

	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/models/dtos"
	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

// SyncLogWriter persists one audit row
type SyncLogWriter interface {
	Create(ctx context.Context, entry *gormModels.SyncLog) error
}

// SyncLogLister reads audit rows back
type SyncLogLister interface {
	List(ctx context.Context, filter dtos.SyncLogFilter) ([]dtos.SyncLogEntry, error)
}

// relationSetters maps an entity type to the sync log column that references it
var relationSetters = map[string]func(*gormModels.SyncLog, string){
	constants.EntityLead:        func(l *gormModels.SyncLog, id string) { l.LeadRef = &id },
	constants.EntityContact:     func(l *gormModels.SyncLog, id string) { l.ContactRef = &id },
	constants.EntityAccount:     func(l *gormModels.SyncLog, id string) { l.AccountRef = &id },
	constants.EntityOpportunity: func(l *gormModels.SyncLog, id string) { l.OpportunityRef = &id },
}

// AuditService writes the sync log. Write failures are handed back as an
// *AuditError and never panic.
type AuditService struct {
	writer SyncLogWriter
	lister SyncLogLister
	policy AccessPolicy
}

func NewAuditService(writer SyncLogWriter, lister SyncLogLister, policy AccessPolicy) *AuditService {
	if policy == nil {
		policy = AllowAllPolicy{}
	}
	return &AuditService{writer: writer, lister: lister, policy: policy}
}

// BuildSyncLog assembles the audit row for one attempt
func BuildSyncLog(sourceID, entityType string, c Classification, requestBody []byte) *gormModels.SyncLog {
	entry := &gormModels.SyncLog{
		Status:           c.Status,
		Response:         c.Diagnostic,
		RequestBody:      string(requestBody),
		SourceRecordID:   sourceID,
		SourceEntityType: entityType,
	}

	if setRelation, ok := relationSetters[entityType]; ok {
		setRelation(entry, sourceID)
	} else {
		entry.Response = fmt.Sprintf("%s ID: %s\n%s", entityType, sourceID, c.Diagnostic)
	}

	return entry
}

// Record appends one sync log row for the attempt on sourceID
func (s *AuditService) Record(ctx context.Context, sourceID, entityType string, c Classification, requestBody []byte) (auditErr *AuditError) {
	defer func() {
		if r := recover(); r != nil {
			auditErr = &AuditError{
				Code:     constants.ErrCodeAuditWriteFailed,
				Message:  constants.GetErrorMessage(constants.ErrCodeAuditWriteFailed),
				RecordID: sourceID,
				Err:      fmt.Errorf("panic: %v", r),
			}
		}
	}()

	if !s.policy.CanWriteSyncLog(ctx) {
		return &AuditError{
			Code:     constants.ErrCodeAuditPermissionDenied,
			Message:  constants.GetErrorMessage(constants.ErrCodeAuditPermissionDenied),
			RecordID: sourceID,
		}
	}

	if err := s.writer.Create(ctx, BuildSyncLog(sourceID, entityType, c, requestBody)); err != nil {
		return &AuditError{
			Code:     constants.ErrCodeAuditWriteFailed,
			Message:  constants.GetErrorMessage(constants.ErrCodeAuditWriteFailed),
			RecordID: sourceID,
			Err:      err,
		}
	}

	return nil
}

// List returns sync log rows for the listing endpoint
func (s *AuditService) List(ctx context.Context, filter dtos.SyncLogFilter) ([]dtos.SyncLogEntry, error) {
	if s.lister == nil {
		return nil, errors.New("sync log listing is not configured")
	}
	return s.lister.List(ctx, filter)
}
