package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/providers"
)

func TestClassify(t *testing.T) {
	request := []byte(`{"d":[{"customer_id":"a@x.com"}]}`)

	tests := []struct {
		name       string
		resp       *providers.DeliveryResponse
		err        error
		wantStatus constants.LogStatus
		wantDiag   string
	}{
		{
			name:       "transport error",
			err:        errors.New("dial tcp: connection refused"),
			wantStatus: constants.LogStatusFailed,
			wantDiag:   "dial tcp: connection refused",
		},
		{
			name:       "no response",
			wantStatus: constants.LogStatusFailed,
			wantDiag:   "no response received",
		},
		{
			name:       "service unavailable",
			resp:       &providers.DeliveryResponse{StatusCode: 503, Body: "Service Unavailable"},
			wantStatus: constants.LogStatusFailed,
			wantDiag:   "Service Unavailable",
		},
		{
			name:       "non-200 with empty body",
			resp:       &providers.DeliveryResponse{StatusCode: 401},
			wantStatus: constants.LogStatusFailed,
			wantDiag:   "",
		},
		{
			name:       "non-200 with success body",
			resp:       &providers.DeliveryResponse{StatusCode: 201, Body: `{"status":"success"}`},
			wantStatus: constants.LogStatusFailed,
			wantDiag:   `{"status":"success"}`,
		},
		{
			name:       "explicit success",
			resp:       &providers.DeliveryResponse{StatusCode: 200, Body: `{"status":"success"}`},
			wantStatus: constants.LogStatusSuccess,
			wantDiag:   `{"status":"success"}` + "\nRequest: " + string(request),
		},
		{
			name:       "success in other case",
			resp:       &providers.DeliveryResponse{StatusCode: 200, Body: `{"status":"SUCCESS"}`},
			wantStatus: constants.LogStatusSuccess,
			wantDiag:   `{"status":"SUCCESS"}` + "\nRequest: " + string(request),
		},
		{
			name:       "explicit failure status",
			resp:       &providers.DeliveryResponse{StatusCode: 200, Body: `{"status":"fail","error":"bad identity"}`},
			wantStatus: constants.LogStatusFailed,
			wantDiag:   `{"status":"fail","error":"bad identity"}`,
		},
		{
			name:       "unparseable body",
			resp:       &providers.DeliveryResponse{StatusCode: 200, Body: "not-json"},
			wantStatus: constants.LogStatusSuccess,
			wantDiag:   "not-json\nRequest: " + string(request),
		},
		{
			name:       "object without status",
			resp:       &providers.DeliveryResponse{StatusCode: 200, Body: `{"processed":1}`},
			wantStatus: constants.LogStatusSuccess,
			wantDiag:   `{"processed":1}` + "\nRequest: " + string(request),
		},
		{
			name:       "non-string status",
			resp:       &providers.DeliveryResponse{StatusCode: 200, Body: `{"status":0}`},
			wantStatus: constants.LogStatusSuccess,
			wantDiag:   `{"status":0}` + "\nRequest: " + string(request),
		},
		{
			name:       "array body",
			resp:       &providers.DeliveryResponse{StatusCode: 200, Body: `[{"status":"fail"}]`},
			wantStatus: constants.LogStatusSuccess,
			wantDiag:   `[{"status":"fail"}]` + "\nRequest: " + string(request),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.resp, tt.err, request)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantDiag, got.Diagnostic)

			// same inputs, same verdict
			assert.Equal(t, got, Classify(tt.resp, tt.err, request))
		})
	}
}
