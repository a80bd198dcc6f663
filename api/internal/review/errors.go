package review

import "errors"

// ErrBusy is returned when a submission attempt is already in flight.
var ErrBusy = errors.New("upload already in progress")

// ValidationError is a local input problem caught before any network call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ExtractionError wraps a failed call to the portal's extraction endpoint.
// Error() carries the user-facing prefix so callers can show it verbatim.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return "Extraction failed: " + e.Err.Error() }

func (e *ExtractionError) Unwrap() error { return e.Err }
