package promotion

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRule is the sentinel for rule-kind uniqueness violations.
	ErrDuplicateRule = errors.New("duplicate promotion rule")

	// ErrEligibility is the sentinel for rule kinds that failed to
	// evaluate. Callers treat the rule as ineligible and log the cause;
	// it never aborts a reconciliation.
	ErrEligibility = errors.New("eligibility evaluation failed")
)

// DuplicateRuleError reports an attempt to attach a second rule of a kind
// the promotion already holds. The promotion is unchanged.
type DuplicateRuleError struct {
	Kind RuleKind
}

// NewDuplicateRuleError creates a DuplicateRuleError for the given kind.
func NewDuplicateRuleError(kind RuleKind) *DuplicateRuleError {
	return &DuplicateRuleError{Kind: kind}
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("%s: promotion already holds a %s rule", ErrDuplicateRule, e.Kind)
}

func (e *DuplicateRuleError) Unwrap() error {
	return ErrDuplicateRule
}

// EligibilityError reports that a rule kind could not decide eligibility,
// e.g. an order history lookup failed.
type EligibilityError struct {
	Kind  RuleKind
	Cause error
}

// NewEligibilityError creates an EligibilityError for the given kind.
func NewEligibilityError(kind RuleKind, cause error) *EligibilityError {
	return &EligibilityError{Kind: kind, Cause: cause}
}

func (e *EligibilityError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s rule (cause: %s)", ErrEligibility, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s rule", ErrEligibility, e.Kind)
}

func (e *EligibilityError) Unwrap() error {
	return ErrEligibility
}
