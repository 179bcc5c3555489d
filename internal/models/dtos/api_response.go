package dtos

// APIResponse is the envelope returned by every JSON endpoint
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	Code         string `json:"code,omitempty"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// DispatchAcceptedResponse is returned when a batch was handed to the workers
type DispatchAcceptedResponse struct {
	BatchSize int `json:"batch_size"`
}
