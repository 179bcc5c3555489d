package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/models/dtos"
)

const maxBatchSize = 500

func decodeDispatchRequest(r *http.Request) (*dtos.DispatchRequest, error) {
	var req dtos.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if len(req.Records) > maxBatchSize {
		return nil, fmt.Errorf("batch of %d records exceeds the limit of %d", len(req.Records), maxBatchSize)
	}
	for i, rec := range req.Records {
		if strings.TrimSpace(rec.ID) == "" || strings.TrimSpace(rec.EntityType) == "" {
			return nil, fmt.Errorf("records[%d]: id and entity_type are required", i)
		}
	}
	return &req, nil
}

// DispatchRecords handles POST /api/v1/records/dispatch.
// The batch is queued and the call returns 202 without waiting for it.
func (h *Handlers) DispatchRecords() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		req, err := decodeDispatchRequest(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		h.deps.Dispatcher.Dispatch(r.Context(), req.Records)

		common.RespondSuccess(w, initTime, "Batch accepted",
			dtos.DispatchAcceptedResponse{BatchSize: len(req.Records)}, http.StatusAccepted)
	}
}

// ResyncRecords handles POST /api/v1/records/resync.
// Records are synced within the request and their outcomes returned.
func (h *Handlers) ResyncRecords() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		req, err := decodeDispatchRequest(r)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		// an attempt runs to completion even if the caller goes away
		results := h.deps.Services.RecordSync.ProcessBatch(context.WithoutCancel(r.Context()), req.Records)
		if results == nil {
			results = []dtos.RecordResult{}
		}

		common.RespondSuccess(w, initTime, "Resync completed", dtos.ResyncResponse{Results: results})
	}
}
