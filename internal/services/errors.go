package services

import (
	"errors"
	"fmt"

	"infinite-experiment/engagesync/internal/constants"
)

// SyncError is a per-record pipeline error raised before delivery
type SyncError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func newSyncError(code, details string, err error) *SyncError {
	return &SyncError{
		Code:    code,
		Message: constants.GetErrorMessage(code),
		Details: details,
		Err:     err,
	}
}

// IsSkip reports whether err means the configuration needed to sync the
// record is unavailable. Skipped records leave no trace in the sync log.
func IsSkip(err error) bool {
	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		return false
	}
	switch syncErr.Code {
	case constants.ErrCodeConfigStoreUnreadable,
		constants.ErrCodeSyncDefinitionNotActive,
		constants.ErrCodeCredentialsNotConfigured,
		constants.ErrCodeMappingsNotConfigured:
		return true
	}
	return false
}

// IsMappingError reports whether err is a mapping validation failure
func IsMappingError(err error) bool {
	var syncErr *SyncError
	return errors.As(err, &syncErr) && syncErr.Code == constants.ErrCodeMandatoryFieldMissing
}

// AuditError is returned when a sync log entry could not be persisted
type AuditError struct {
	Code     string
	Message  string
	RecordID string
	Err      error
}

func (e *AuditError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (record %s): %v", e.Message, e.RecordID, e.Err)
	}
	return fmt.Sprintf("%s (record %s)", e.Message, e.RecordID)
}

func (e *AuditError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error
type ConfigError struct {
	Code    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
