package api

import (
	"net/http"
	"strconv"
	"time"

	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/logging"
	"infinite-experiment/engagesync/internal/models/dtos"
)

// ListSyncLogs handles GET /api/v1/sync-logs
//
// Query: entity_type, status, source_record_id, since (RFC3339), limit
func (h *Handlers) ListSyncLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		q := r.URL.Query()

		filter := dtos.SyncLogFilter{
			EntityType:     q.Get("entity_type"),
			Status:         q.Get("status"),
			SourceRecordID: q.Get("source_record_id"),
		}

		if filter.Status != "" &&
			filter.Status != string(constants.LogStatusSuccess) &&
			filter.Status != string(constants.LogStatusFailed) {
			common.RespondError(w, initTime, nil, "status must be Success or Failed", http.StatusBadRequest)
			return
		}

		if raw := q.Get("since"); raw != "" {
			since, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				common.RespondError(w, initTime, nil, "since must be an RFC3339 timestamp", http.StatusBadRequest)
				return
			}
			filter.Since = &since
		}

		if raw := q.Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				common.RespondError(w, initTime, nil, "limit must be a positive number", http.StatusBadRequest)
				return
			}
			filter.Limit = limit
		}

		entries, err := h.deps.Services.Audit.List(r.Context(), filter)
		if err != nil {
			logging.Error("Failed to list sync logs", "error", err.Error())
			common.RespondError(w, initTime, nil, "Failed to list sync logs", http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []dtos.SyncLogEntry{}
		}

		common.RespondSuccess(w, initTime, "Sync logs fetched", entries)
	}
}
