package services

import (
	"encoding/json"
	"net/http"
	"strings"

	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/providers"
)

// Classification is the audit-ready verdict on one delivery attempt
type Classification struct {
	Status     constants.LogStatus
	Diagnostic string
}

// Classify decides the outcome of a delivery attempt. It depends only on its
// arguments.
//
// A 200 response is trusted unless the body is a JSON object whose "status"
// is a string other than "success". Bodies that are not JSON, are not objects,
// or carry no string status are all treated as success.
func Classify(resp *providers.DeliveryResponse, transportErr error, requestBody []byte) Classification {
	if transportErr != nil {
		return Classification{Status: constants.LogStatusFailed, Diagnostic: transportErr.Error()}
	}
	if resp == nil {
		return Classification{Status: constants.LogStatusFailed, Diagnostic: "no response received"}
	}

	if resp.StatusCode != http.StatusOK {
		return Classification{Status: constants.LogStatusFailed, Diagnostic: resp.Body}
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(resp.Body), &parsed); err == nil {
		if status, ok := parsed["status"].(string); ok && !strings.EqualFold(status, "success") {
			return Classification{Status: constants.LogStatusFailed, Diagnostic: resp.Body}
		}
	}

	return Classification{
		Status:     constants.LogStatusSuccess,
		Diagnostic: resp.Body + "\nRequest: " + string(requestBody),
	}
}

// FailedClassification wraps a pre-delivery failure reason
func FailedClassification(reason string) Classification {
	return Classification{Status: constants.LogStatusFailed, Diagnostic: reason}
}
