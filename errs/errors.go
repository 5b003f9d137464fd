// Package errs defines the error taxonomy shared by the previz pipeline.
// Callers branch with errors.Is / errors.As; nothing here carries HTTP
// semantics.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks caller mistakes: unsupported LOD codes for an
	// operation, malformed identifiers. Never retried.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidProfile marks an unrecognized, non-blank LOD profile code.
	ErrInvalidProfile = errors.New("invalid LOD profile")

	// ErrNotFound marks a missing script/scene/frame id.
	ErrNotFound = errors.New("not found")

	// ErrQueueSaturated is returned when the bounded parse queue rejects a
	// submission. The scene stays pending; the scheduler may resubmit it.
	ErrQueueSaturated = errors.New("parse queue saturated")
)

// PipelineError reports that a JSON- or text-completion step failed for
// good: every retry budget was exhausted or the endpoint itself broke.
// It is never silently defaulted — a fabricated document would poison the
// prompt downstream.
type PipelineError struct {
	Step    string
	Budgets []int
	Cause   error
}

func (e *PipelineError) Error() string {
	if len(e.Budgets) > 0 {
		return fmt.Sprintf("%s failed after %d attempts (budgets %v): %v", e.Step, len(e.Budgets), e.Budgets, e.Cause)
	}
	return fmt.Sprintf("%s failed: %v", e.Step, e.Cause)
}

func (e *PipelineError) Unwrap() error { return e.Cause }

// GenerationFailure reports that the image-generation collaborator
// returned an error or was unreachable. The orchestrator records it on a
// placeholder frame instead of propagating it to the caller.
type GenerationFailure struct {
	Profile string
	Cause   error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("image generation failed (profile=%s): %v", e.Profile, e.Cause)
}

func (e *GenerationFailure) Unwrap() error { return e.Cause }

// InvalidRequestf wraps ErrInvalidRequest with a formatted reason.
func InvalidRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted subject.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
