// internal/scan/errors.go
// Scan error taxonomy

package scan

import "errors"

var (
	// ErrResolution means no address could be resolved for the target.
	// It is scan-fatal: the session terminates in the Failed state.
	ErrResolution = errors.New("target did not resolve to an address")

	// ErrCollaborator means the external scan tool is missing or failed.
	// It degrades to a TCP connect fallback, never to a scan failure.
	ErrCollaborator = errors.New("external scan tool unavailable")
)

// Error wraps a scan-domain failure with its cause.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
