package provider

import "fmt"

// APIError is returned when an upstream provider answers with a non-200
// status. Callers classify it by StatusCode.
type APIError struct {
	Provider   string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
}
