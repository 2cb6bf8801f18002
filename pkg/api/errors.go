package api

import "fmt"

// fallbackMessage is used when an error response carries no message field.
const fallbackMessage = "request failed"

// RemoteError is a non-2xx response from a storefront endpoint.
// Message is the server's human-readable message field when present,
// or a generic fallback otherwise.
type RemoteError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("trcafe: remote error %d: %s", e.Status, e.Message)
}
