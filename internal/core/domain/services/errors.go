package services

import (
	"errors"
	"fmt"
)

// ErrForbiddenAttribute is the sentinel for patch attributes the checkout
// machine refuses to apply.
var ErrForbiddenAttribute = errors.New("forbidden attribute")

// ForbiddenAttributeError reports a patch carrying an attribute outside the
// checkout whitelist. The patch is rejected as a whole and no state changes.
type ForbiddenAttributeError struct {
	Attribute string
}

// NewForbiddenAttributeError creates a ForbiddenAttributeError.
func NewForbiddenAttributeError(attribute string) *ForbiddenAttributeError {
	return &ForbiddenAttributeError{Attribute: attribute}
}

func (e *ForbiddenAttributeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrForbiddenAttribute, e.Attribute)
}

func (e *ForbiddenAttributeError) Unwrap() error {
	return ErrForbiddenAttribute
}
