package llm

import "fmt"

// TransportError wraps connectivity failures (network, DNS, timeouts).
// The request never produced an API response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError wraps a rejected request: auth failure, rate limit, invalid
// request, or any other non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// APICode returns the HTTP status code from the API.
func (e *APIError) APICode() int {
	return e.StatusCode
}

// APIMessage returns the raw error message from the API.
func (e *APIError) APIMessage() string {
	return e.Message
}

// APIErrorDetails is implemented by errors that carry API error details,
// used by the instrumented adapter to tag metrics and logs.
type APIErrorDetails interface {
	error
	APICode() int
	APIMessage() string
}
