package models

import "fmt"

// TimeoutError reports that the generation call exceeded its bounded
// duration.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string { return fmt.Sprintf("generation timed out: %v", e.Err) }
func (e *TimeoutError) Unwrap() error { return e.Err }

// HTTPError reports a non-success status from the generation service,
// carrying the raw status and body for operator-facing reporting.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("generation service returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("generation service returned HTTP %d: %s", e.Status, e.Body)
}

// TransportError reports a failure to reach the generation service at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("generation transport error: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }
