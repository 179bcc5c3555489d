package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/models/dtos"
	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

// SaveCredentials handles PUT /api/v1/credentials
func (h *Handlers) SaveCredentials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.SaveCredentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		creds, err := h.deps.Services.SyncConfig.SaveCredentials(r.Context(), &req)
		if err != nil {
			handleConfigError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Credentials saved successfully", toCredentialsResponse(creds))
	}
}

// SaveSyncDefinition handles POST /api/v1/sync-definitions
func (h *Handlers) SaveSyncDefinition() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.SaveSyncDefinitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		def, err := h.deps.Services.SyncConfig.SaveSyncDefinition(r.Context(), &req)
		if err != nil {
			handleConfigError(w, initTime, err)
			return
		}

		status := http.StatusCreated
		if req.ID != "" {
			status = http.StatusOK
		}
		common.RespondSuccess(w, initTime, "Sync definition saved successfully", toSyncDefinitionResponse(def), status)
	}
}

// DeleteSyncDefinition handles DELETE /api/v1/sync-definitions/{id}
func (h *Handlers) DeleteSyncDefinition() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := h.deps.Services.SyncConfig.DeleteSyncDefinition(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleConfigError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Sync definition deleted", nil)
	}
}

// ReplaceFieldMappings handles PUT /api/v1/sync-definitions/{id}/mappings
func (h *Handlers) ReplaceFieldMappings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.ReplaceFieldMappingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		mappings, err := h.deps.Services.SyncConfig.ReplaceFieldMappings(r.Context(), chi.URLParam(r, "id"), req.Mappings)
		if err != nil {
			handleConfigError(w, initTime, err)
			return
		}

		resp := make([]dtos.FieldMappingResponse, 0, len(mappings))
		for _, m := range mappings {
			resp = append(resp, dtos.FieldMappingResponse{
				ID:          m.ID,
				TargetField: m.TargetField,
				SourceField: m.SourceField,
				DataType:    m.DataType,
				IsMandatory: m.IsMandatory,
				Position:    m.Position,
			})
		}

		common.RespondSuccess(w, initTime, "Field mappings replaced", resp)
	}
}

func toCredentialsResponse(c *gormModels.PlatformCredentials) dtos.CredentialsResponse {
	return dtos.CredentialsResponse{
		ID:            c.ID,
		Name:          c.Name,
		DeveloperName: c.DeveloperName,
		APIURL:        c.APIURL,
		AccountID:     c.AccountID,
		Region:        c.Region,
		IsActive:      c.IsActive,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toSyncDefinitionResponse(d *gormModels.SyncDefinition) dtos.SyncDefinitionResponse {
	return dtos.SyncDefinitionResponse{
		ID:               d.ID,
		Name:             d.Name,
		SyncType:         d.SyncType,
		SourceEntityType: d.SourceEntityType,
		TargetEntityType: d.TargetEntityType,
		Status:           string(d.Status),
		ConnectionID:     d.ConnectionID,
		UpdatedAt:        d.UpdatedAt,
	}
}
