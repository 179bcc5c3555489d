package dtos

import (
	"slices"
	"strings"
)

// SourceRecord is a changed record handed over by a change-capture hook.
// The pipeline never mutates it.
type SourceRecord struct {
	ID           string                 `json:"id"`
	EntityType   string                 `json:"entity_type"`
	ConnectionID string                 `json:"connection_id,omitempty"`
	Fields       map[string]interface{} `json:"fields"`
}

// Lookup returns the value stored under field. An exact key match wins;
// otherwise keys are compared case-insensitively, the way the system of record
// treats API field names. Among several case-insensitive matches the
// lexically smallest key wins.
func (r SourceRecord) Lookup(field string) (interface{}, bool) {
	if r.Fields == nil {
		return nil, false
	}
	if v, ok := r.Fields[field]; ok {
		return v, true
	}
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if strings.EqualFold(k, field) {
			return r.Fields[k], true
		}
	}
	return nil, false
}

// MappedPayload is the platform-side view of one record: target field -> value
type MappedPayload map[string]interface{}

// UploadEnvelope is the platform's "batch of one" upload body
type UploadEnvelope struct {
	D []MappedPayload `json:"d"`
}
