package api

import (
	"errors"
	"net/http"
	"time"

	"infinite-experiment/engagesync/internal/common"
	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/logging"
	"infinite-experiment/engagesync/internal/services"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// handleConfigError maps config service errors to appropriate HTTP responses
func handleConfigError(w http.ResponseWriter, initTime time.Time, err error) {
	var configErr *services.ConfigError
	if errors.As(err, &configErr) {
		statusCode := http.StatusInternalServerError

		switch configErr.Code {
		case constants.ErrCodeConfigMalformed,
			constants.ErrCodeDuplicateTargetField,
			constants.ErrCodeMandatoryMappingCount:
			statusCode = http.StatusBadRequest
		case constants.ErrCodeSyncDefinitionNotFound:
			statusCode = http.StatusNotFound
		}

		// persistence details stay in the logs
		if statusCode == http.StatusInternalServerError {
			logging.Error("Configuration write failed", "code", configErr.Code, "error", err.Error())
			common.RespondErrorCode(w, initTime, configErr.Code, constants.GetErrorMessage(configErr.Code), statusCode)
			return
		}
		common.RespondErrorCode(w, initTime, configErr.Code, configErr.Message, statusCode)
		return
	}

	// Default to internal server error for unknown errors
	logging.Error("Unexpected configuration error", "error", err.Error())
	common.RespondError(w, initTime, nil, "An unexpected error occurred", http.StatusInternalServerError)
}
