package ai

import "fmt"

// APIError is a non-2xx provider response. StatusCode and Reason drive the
// retry classification in the query ladder.
type APIError struct {
	Provider   string
	StatusCode int
	Reason     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Reason)
}
