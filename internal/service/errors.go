package service

import (
	"errors"
	"fmt"
	"net/http"

	"market-dashboard-api/internal/provider"
)

// ErrorType classifies service failures for the HTTP boundary
type ErrorType int

const (
	ErrorTypeInvalidInput ErrorType = iota
	ErrorTypeUnsupportedCurrency
	ErrorTypeRateLimited
	ErrorTypeAuthFailed
	ErrorTypeUpstreamUnavailable
	ErrorTypeStoreUnavailable
)

// ServiceError represents a service-specific error with type information
type ServiceError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// IsClientError reports whether the error is the caller's fault
func (e *ServiceError) IsClientError() bool {
	return e.Type == ErrorTypeInvalidInput || e.Type == ErrorTypeUnsupportedCurrency
}

// classifyProviderError maps an upstream failure onto the taxonomy.
// Status 429 is the provider throttling us, 401 a key problem; everything
// else, including timeouts and connection errors, is the provider being
// unavailable.
func classifyProviderError(providerName string, err error) *ServiceError {
	var apiError *provider.APIError
	if errors.As(err, &apiError) {
		switch apiError.StatusCode {
		case http.StatusTooManyRequests:
			return &ServiceError{
				Type:    ErrorTypeRateLimited,
				Message: fmt.Sprintf("%s rate limit exceeded", providerName),
				Cause:   err,
			}
		case http.StatusUnauthorized:
			return &ServiceError{
				Type:    ErrorTypeAuthFailed,
				Message: fmt.Sprintf("%s authentication failed", providerName),
				Cause:   err,
			}
		}
	}
	return &ServiceError{
		Type:    ErrorTypeUpstreamUnavailable,
		Message: fmt.Sprintf("%s is unavailable", providerName),
		Cause:   err,
	}
}

// storeError wraps a persistence failure
func storeError(operation string, err error) *ServiceError {
	return &ServiceError{
		Type:    ErrorTypeStoreUnavailable,
		Message: fmt.Sprintf("storage failed during %s", operation),
		Cause:   err,
	}
}
