package dtos

import "time"

// SaveCredentialsRequest is the request body for PUT /api/v1/credentials
type SaveCredentialsRequest struct {
	Name          string `json:"name"`
	DeveloperName string `json:"developer_name"`
	APIURL        string `json:"api_url"`
	AccountID     string `json:"account_id"`
	Passcode      string `json:"passcode"`
	Region        string `json:"region"`
	IsActive      bool   `json:"is_active"`
}

// SaveSyncDefinitionRequest is the request body for POST /api/v1/sync-definitions
type SaveSyncDefinitionRequest struct {
	ID               string `json:"id,omitempty"`
	Name             string `json:"name"`
	SyncType         string `json:"sync_type"`
	SourceEntityType string `json:"source_entity_type"`
	TargetEntityType string `json:"target_entity_type"`
	Status           string `json:"status"`
	ConnectionID     string `json:"connection_id,omitempty"`
}

// FieldMappingInput is one rule in a mapping replacement set
type FieldMappingInput struct {
	TargetField string `json:"target_field"`
	SourceField string `json:"source_field"`
	DataType    string `json:"data_type"`
	IsMandatory bool   `json:"is_mandatory"`
}

// ReplaceFieldMappingsRequest is the body for PUT /api/v1/sync-definitions/{id}/mappings
type ReplaceFieldMappingsRequest struct {
	Mappings []FieldMappingInput `json:"mappings"`
}

// DispatchRequest carries changed records from a change-capture hook
type DispatchRequest struct {
	Records []SourceRecord `json:"records"`
}

// SyncLogFilter narrows the sync log listing
type SyncLogFilter struct {
	EntityType     string
	Status         string
	SourceRecordID string
	Since          *time.Time
	Limit          int
}

// SyncLogEntry is one row of the sync log listing
type SyncLogEntry struct {
	ID               string    `db:"id" json:"id"`
	Status           string    `db:"status" json:"status"`
	Response         string    `db:"response" json:"response"`
	SourceRecordID   string    `db:"source_record_id" json:"source_record_id"`
	SourceEntityType string    `db:"source_entity_type" json:"source_entity_type"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// RecordResult is the terminal outcome of one record in a synchronous resync
type RecordResult struct {
	RecordID   string `json:"record_id"`
	EntityType string `json:"entity_type"`
	Outcome    string `json:"outcome"`
	Detail     string `json:"detail,omitempty"`
}

// CredentialsResponse is the public view of a credential set; the passcode is never returned
type CredentialsResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DeveloperName string    `json:"developer_name"`
	APIURL        string    `json:"api_url,omitempty"`
	AccountID     string    `json:"account_id"`
	Region        string    `json:"region,omitempty"`
	IsActive      bool      `json:"is_active"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SyncDefinitionResponse is returned by the sync definition endpoints
type SyncDefinitionResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	SyncType         string    `json:"sync_type"`
	SourceEntityType string    `json:"source_entity_type"`
	TargetEntityType string    `json:"target_entity_type"`
	Status           string    `json:"status"`
	ConnectionID     string    `json:"connection_id,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FieldMappingResponse is one saved mapping rule
type FieldMappingResponse struct {
	ID          string `json:"id"`
	TargetField string `json:"target_field"`
	SourceField string `json:"source_field"`
	DataType    string `json:"data_type,omitempty"`
	IsMandatory bool   `json:"is_mandatory"`
	Position    int    `json:"position"`
}

// ResyncResponse carries the outcome of every record of a synchronous resync
type ResyncResponse struct {
	Results []RecordResult `json:"results"`
}
