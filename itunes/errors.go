package itunes

import (
	"errors"
	"fmt"
)

// ErrServiceUnavailable is matched by every upstream failure. Callers only
// need errors.Is(err, ErrServiceUnavailable) to answer with a 503.
var ErrServiceUnavailable = errors.New("catalog service unavailable")

// Reason records why the catalog could not be used. It is kept for logs and
// tests and is never shown to end users.
type Reason string

const (
	ReasonTimeout     Reason = "timeout"
	ReasonUnreachable Reason = "unreachable"
	ReasonBadStatus   Reason = "bad_status"
	ReasonMalformed   Reason = "malformed"
)

// UpstreamError is returned by FetchArtists for any failure talking to the catalog.
type UpstreamError struct {
	Reason     Reason
	StatusCode int // set for ReasonBadStatus
	Err        error
}

func (e *UpstreamError) Error() string {
	switch e.Reason {
	case ReasonTimeout:
		return "itunes: request timed out"
	case ReasonBadStatus:
		return fmt.Sprintf("itunes: unexpected status %d", e.StatusCode)
	case ReasonMalformed:
		if e.Err != nil {
			return fmt.Sprintf("itunes: unexpected response format: %v", e.Err)
		}
		return "itunes: unexpected response format"
	default:
		if e.Err != nil {
			return fmt.Sprintf("itunes: unable to reach service: %v", e.Err)
		}
		return "itunes: unable to reach service"
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is makes every UpstreamError match ErrServiceUnavailable.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrServiceUnavailable
}

// ReasonOf returns the reason carried by err, or "" if err is not an UpstreamError.
func ReasonOf(err error) Reason {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Reason
	}
	return ""
}
