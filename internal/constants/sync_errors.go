package constants

// Sync pipeline error codes

// Configuration unavailable: the record is skipped, nothing is logged
const (
	ErrCodeConfigStoreUnreadable    = "CONFIG_STORE_UNREADABLE"
	ErrCodeSyncDefinitionNotActive  = "SYNC_DEFINITION_NOT_ACTIVE"
	ErrCodeCredentialsNotConfigured = "CREDENTIALS_NOT_CONFIGURED"
	ErrCodeMappingsNotConfigured    = "FIELD_MAPPINGS_NOT_CONFIGURED"
)

// Mapping errors
const (
	ErrCodeMandatoryFieldMissing = "MANDATORY_FIELD_MISSING"
	ErrCodePayloadEncoding       = "PAYLOAD_ENCODING_FAILED"
)

// Delivery errors
const (
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeInvalidEndpoint   = "INVALID_ENDPOINT"
	ErrCodeRequestBuildError = "REQUEST_BUILD_FAILED"
)

// Audit errors
const (
	ErrCodeAuditPermissionDenied = "AUDIT_PERMISSION_DENIED"
	ErrCodeAuditWriteFailed      = "AUDIT_WRITE_FAILED"
)

// Configuration write errors
const (
	ErrCodeConfigMalformed        = "CONFIG_MALFORMED"
	ErrCodeDuplicateTargetField   = "DUPLICATE_TARGET_FIELD"
	ErrCodeMandatoryMappingCount  = "MANDATORY_MAPPING_COUNT"
	ErrCodeSyncDefinitionNotFound = "SYNC_DEFINITION_NOT_FOUND"
	ErrCodeConfigPersistence      = "CONFIG_PERSISTENCE_FAILED"
)

var SyncErrorMessages = map[string]string{
	ErrCodeConfigStoreUnreadable:    "The sync configuration store is not readable by the current context",
	ErrCodeSyncDefinitionNotActive:  "No active sync definition exists for this entity type",
	ErrCodeCredentialsNotConfigured: "Platform credentials are missing or incomplete",
	ErrCodeMappingsNotConfigured:    "The active sync definition has no field mappings",

	ErrCodeMandatoryFieldMissing: "A mandatory mapped field has no value on the source record",
	ErrCodePayloadEncoding:       "The mapped payload could not be encoded",

	ErrCodeNetworkError:      "Unable to reach the engagement platform",
	ErrCodeInvalidEndpoint:   "The engagement platform endpoint could not be resolved",
	ErrCodeRequestBuildError: "The upload request could not be built",

	ErrCodeAuditPermissionDenied: "The current context may not create sync log entries",
	ErrCodeAuditWriteFailed:      "The sync log entry could not be written",

	ErrCodeConfigMalformed:        "The configuration structure is invalid",
	ErrCodeDuplicateTargetField:   "Target field names must be unique within a sync definition",
	ErrCodeMandatoryMappingCount:  "Exactly one field mapping must be marked mandatory",
	ErrCodeSyncDefinitionNotFound: "The sync definition does not exist",
	ErrCodeConfigPersistence:      "The configuration could not be saved",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := SyncErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
