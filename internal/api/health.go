package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"infinite-experiment/engagesync/internal/constants"
	"infinite-experiment/engagesync/internal/models/entities"
)

// HealthCheck handles GET /healthCheck
func (h *Handlers) HealthCheck(upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		services := make(map[string]entities.ServiceStatus)

		// Check postgres
		pgstatus := "ok"
		pgDetails := "Postgres Connected"
		if h.deps.SQLDB == nil {
			pgstatus = "down"
			pgDetails = "not configured"
		} else if err := h.deps.SQLDB.PingContext(ctx); err != nil {
			pgstatus = "down"
			pgDetails = err.Error()
		}
		services["postgres"] = entities.ServiceStatus{
			Status:  pgstatus,
			Details: pgDetails,
		}

		// Check redis, only used by the redis dispatch backend
		if h.deps.Redis != nil {
			redisStatus := "ok"
			redisDetails := "Redis Connected"
			if err := h.deps.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = "down"
				redisDetails = err.Error()
			}
			services["redis"] = entities.ServiceStatus{
				Status:  redisStatus,
				Details: redisDetails,
			}
		}

		var dispatch *entities.DispatchStatus
		if q := h.deps.Services.RedisQueue; q != nil && services["redis"].Status == "ok" {
			dispatch = &entities.DispatchStatus{Stream: constants.DispatchStreamName}
			dispatch.Length, _ = q.GetQueueLength(ctx, constants.DispatchStreamName)
			dispatch.Pending, _ = q.GetPendingCount(ctx, constants.DispatchStreamName, constants.DispatchConsumerGroup)
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := entities.HealthCheckResponse{
			Services: services,
			Dispatch: dispatch,
			Status:   overallStatus,
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}

		w.Header().Set("Content-Type", "application/json")
		if overallStatus != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
