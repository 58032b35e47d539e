package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidReview = errors.New("invalid review")
)

type FailureKind string

const (
	FailureTransport   FailureKind = "transport"
	FailureUpstream    FailureKind = "upstream-error"
	FailureRateLimited FailureKind = "rate-limited"
	FailureMalformed   FailureKind = "malformed-response"
)

// AnalysisFailure reports why a call to the external analysis gateway did not
// produce a usable result.
type AnalysisFailure struct {
	Kind   FailureKind
	Status int // HTTP status when the upstream answered, else 0
	Err    error
}

func (e *AnalysisFailure) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("analysis failed (%s, status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("analysis failed (%s): %v", e.Kind, e.Err)
}

func (e *AnalysisFailure) Unwrap() error { return e.Err }

// AsAnalysisFailure extracts an *AnalysisFailure from err's chain.
func AsAnalysisFailure(err error) (*AnalysisFailure, bool) {
	var af *AnalysisFailure
	if errors.As(err, &af) {
		return af, true
	}
	return nil, false
}
