package providers

import (
	"context"
	"fmt"

	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

// DeliveryProvider sends one serialized upload body to the engagement platform
type DeliveryProvider interface {
	// Send issues exactly one request. Any HTTP status is returned as a
	// response; only transport failures produce an error.
	Send(ctx context.Context, creds *gormModels.PlatformCredentials, body []byte) (*DeliveryResponse, error)

	// GetProviderType returns the provider type identifier
	GetProviderType() string
}

// DeliveryResponse is the raw platform reply
type DeliveryResponse struct {
	StatusCode int
	Body       string
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
