// Package geolocation answers "where am I" with a single-shot lookup that
// always returns a Result, never a bare error.
package geolocation

import (
	"context"
	"fmt"

	"github.com/ngmaloney/coat-terminal/internal/models"
)

// Reason classifies why a position could not be determined.
type Reason string

const (
	ReasonPermissionDenied Reason = "permission denied"
	ReasonUnsupported      Reason = "unsupported"
	ReasonUnavailable      Reason = "unavailable"
)

// Error is the typed failure carried by a Result.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation %s: %v", e.Reason, e.Err)
	}
	return "geolocation " + string(e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Result is the outcome of one Locate call: a position or a failure.
type Result struct {
	Position models.Position
	Failure  *Error
}

// Found builds a successful result.
func Found(pos models.Position) Result {
	return Result{Position: pos}
}

// Failed builds a failed result.
func Failed(reason Reason, err error) Result {
	return Result{Failure: &Error{Reason: reason, Err: err}}
}

// OK reports whether a position was determined.
func (r Result) OK() bool { return r.Failure == nil }

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// Locator determines the device position once per call.
type Locator interface {
	Locate(ctx context.Context) Result
}

// Static always reports a fixed position, typically from flags or env.
type Static struct {
	Position models.Position
}

func (s Static) Locate(_ context.Context) Result {
	return Found(s.Position)
}

// Unsupported is used when no location source is configured.
type Unsupported struct{}

func (Unsupported) Locate(_ context.Context) Result {
	return Failed(ReasonUnsupported, nil)
}
