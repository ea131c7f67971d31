package order

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through the NewOrder factory method.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderContentImmutable is returned when a content mutation is
	// attempted on a completed order. Completed orders may still change
	// status, never content.
	ErrOrderContentImmutable = errors.New("order content is immutable after completion")

	// ErrIncompleteCheckout is returned when completion is attempted from
	// any stage other than confirmation. The order keeps its stage.
	ErrIncompleteCheckout = errors.New("checkout can only complete from the confirmation stage")

	// ErrStageValidation is the sentinel for unmet stage preconditions.
	ErrStageValidation = errors.New("stage validation failed")
)

// StageValidationError reports an unmet precondition blocking a stage
// transition. It is expected and recoverable during checkout: the caller is
// shown the requirement and the order stays at its current stage.
type StageValidationError struct {
	Stage       Stage
	Requirement string
}

// NewStageValidationError creates a StageValidationError for the given stage.
func NewStageValidationError(stage Stage, requirement string) *StageValidationError {
	return &StageValidationError{Stage: stage, Requirement: requirement}
}

func (e *StageValidationError) Error() string {
	return fmt.Sprintf("%s: %s stage requires %s", ErrStageValidation, e.Stage, e.Requirement)
}

func (e *StageValidationError) Unwrap() error {
	return ErrStageValidation
}
