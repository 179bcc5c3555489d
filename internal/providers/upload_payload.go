package providers

import (
	"encoding/json"
	"fmt"

	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/models/dtos"
)

// BuildUploadBody wraps payload as the single element of the upload envelope.
// Map keys are emitted in sorted order, so the same payload always yields the
// same bytes; the audit trail relies on that to log exactly what was sent.
func BuildUploadBody(payload dtos.MappedPayload) ([]byte, error) {
	if payload == nil {
		payload = dtos.MappedPayload{}
	}

	body, err := json.Marshal(dtos.UploadEnvelope{D: []dtos.MappedPayload{payload}})
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodePayloadEncoding,
			Message: constants.GetErrorMessage(constants.ErrCodePayloadEncoding),
			Err:     err,
		}
	}
	return body, nil
}

// ParseUploadBody is the inverse of BuildUploadBody
func ParseUploadBody(body []byte) (dtos.MappedPayload, error) {
	var envelope dtos.UploadEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode upload body: %w", err)
	}
	if len(envelope.D) != 1 {
		return nil, fmt.Errorf("upload body holds %d records, expected 1", len(envelope.D))
	}
	return envelope.D[0], nil
}
