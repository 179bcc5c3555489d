package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"infinite-experiment/engagesync/internal/constants"
	gormModels "infinite-experiment/engagesync/internal/models/gorm"
)

const (
	// DefaultDeliveryTimeout bounds a single upload against a hung peer
	DefaultDeliveryTimeout = 120 * time.Second

	uploadPath = "/1/upload"

	headerAccountID = "X-CleverTap-Account-Id"
	headerPasscode  = "X-CleverTap-Passcode"
)

// CleverTapProvider implements DeliveryProvider for the CleverTap upload API
type CleverTapProvider struct {
	Client *http.Client
}

// NewCleverTapProvider creates a provider whose requests give up after timeout
func NewCleverTapProvider(timeout time.Duration) *CleverTapProvider {
	if timeout <= 0 {
		timeout = DefaultDeliveryTimeout
	}
	return &CleverTapProvider{
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetProviderType returns the provider type identifier
func (p *CleverTapProvider) GetProviderType() string {
	return "clevertap"
}

// ResolveEndpoint picks the upload URL: the explicit API URL when present,
// otherwise the regional host.
func ResolveEndpoint(creds *gormModels.PlatformCredentials) (string, error) {
	if creds == nil {
		return "", &ProviderError{
			Code:    constants.ErrCodeInvalidEndpoint,
			Message: "credentials are missing",
		}
	}

	if apiURL := strings.TrimSpace(creds.APIURL); apiURL != "" {
		parsed, err := url.Parse(apiURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return "", &ProviderError{
				Code:    constants.ErrCodeInvalidEndpoint,
				Message: fmt.Sprintf("invalid api url %q", apiURL),
				Err:     err,
			}
		}
		return apiURL, nil
	}

	region := strings.ToLower(strings.TrimSpace(creds.Region))
	if region == "" {
		return "", &ProviderError{
			Code:    constants.ErrCodeInvalidEndpoint,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidEndpoint),
		}
	}
	return fmt.Sprintf("https://%s.api.clevertap.com%s", region, uploadPath), nil
}

// Send posts body to the platform once. There is no retry here.
func (p *CleverTapProvider) Send(ctx context.Context, creds *gormModels.PlatformCredentials, body []byte) (*DeliveryResponse, error) {
	endpoint, err := ResolveEndpoint(creds)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeRequestBuildError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	// Set headers
	req.Header.Set(headerAccountID, creds.AccountID)
	req.Header.Set(headerPasscode, creds.Passcode)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	// Execute request
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Err:     err,
		}
	}

	return &DeliveryResponse{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}, nil
}
