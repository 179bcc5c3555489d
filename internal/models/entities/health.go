package entities

import "time"

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

// DispatchStatus describes the backlog of the redis dispatch stream
type DispatchStatus struct {
	Stream  string `json:"stream"`
	Length  int64  `json:"length"`
	Pending int64  `json:"pending"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
	Dispatch *DispatchStatus          `json:"dispatch,omitempty"`
	UpSince  time.Time                `json:"up_since"`
	Uptime   string                   `json:"uptime"`
}
