package order

import (
	"fmt"

	"checkout/internal/pkg/errs"
)

// Stage represents one step of the checkout progression state machine.
//
// Linear flow:
//
//	Cart ──> Address ──> Delivery ──> Payment ──> Confirmation ──> Complete
//
// Canceled is reachable from every stage except Complete; Resumed is
// reachable only from Canceled and returns the order to the stage it held
// before cancellation on the next advance.
type Stage int

const (
	// StageUnknown represents an invalid or undefined stage.
	// This value (0) helps catch uninitialized Stage values.
	StageUnknown Stage = iota

	// StageCart is the initial stage where line items are collected.
	StageCart

	// StageAddress requires a shipping address valid for the store.
	StageAddress

	// StageDelivery requires at least one available shipping method
	// for every shipment.
	StageDelivery

	// StagePayment requires payment information covering the balance.
	StagePayment

	// StageConfirmation is the final review step before completion.
	StageConfirmation

	// StageComplete is the terminal stage of a finished checkout.
	// Order content is immutable from here on.
	StageComplete

	// StageCanceled is the soft-deleted stage. The order keeps its content
	// and can be resumed.
	StageCanceled

	// StageResumed marks an order brought back from cancellation. Advancing
	// returns it to its pre-cancellation stage.
	StageResumed
)

func stageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown:      "unknown",
		StageCart:         "cart",
		StageAddress:      "address",
		StageDelivery:     "delivery",
		StagePayment:      "payment",
		StageConfirmation: "confirmation",
		StageComplete:     "complete",
		StageCanceled:     "canceled",
		StageResumed:      "resumed",
	}
}

// Validate checks that the Stage holds one of the defined values.
func (s Stage) Validate() error {
	if s <= StageUnknown || s > StageResumed {
		return errs.NewValueIsInvalidErrorWithCause("stage",
			fmt.Errorf("%d is not a valid checkout stage", s))
	}
	return nil
}

// String returns the lowercase stage name. Implements fmt.Stringer.
func (s Stage) String() string {
	if str, ok := stageStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Next returns the following stage in the linear checkout flow.
// Complete, Canceled, and Resumed have no static successor: Complete is
// terminal, Canceled must go through Resume, and a Resumed order's successor
// depends on its pre-cancellation stage (see Order.NextStage).
func (s Stage) Next() (Stage, error) {
	switch s {
	case StageCart:
		return StageAddress, nil
	case StageAddress:
		return StageDelivery, nil
	case StageDelivery:
		return StagePayment, nil
	case StagePayment:
		return StageConfirmation, nil
	case StageConfirmation:
		return StageComplete, nil
	default:
		return StageUnknown, errs.NewValueIsInvalidErrorWithCause("stage",
			fmt.Errorf("%s has no next checkout stage", s))
	}
}

// IsTerminal reports whether no further progression is possible.
func (s Stage) IsTerminal() bool {
	return s == StageComplete
}

// CanCancel reports whether the order may be canceled from this stage.
// Everything short of completion can be canceled; canceling twice is not
// a transition.
func (s Stage) CanCancel() bool {
	return s != StageComplete && s != StageCanceled && s != StageUnknown
}

// Transitions returns the full transition table of the checkout machine,
// queryable for reachability. The Resumed successor listed here is the set
// of stages a resumed order may return to.
func Transitions() map[Stage][]Stage {
	return map[Stage][]Stage{
		StageCart:         {StageAddress, StageCanceled},
		StageAddress:      {StageDelivery, StageCanceled},
		StageDelivery:     {StagePayment, StageCanceled},
		StagePayment:      {StageConfirmation, StageCanceled},
		StageConfirmation: {StageComplete, StageCanceled},
		StageComplete:     {},
		StageCanceled:     {StageResumed},
		StageResumed: {
			StageCart, StageAddress, StageDelivery,
			StagePayment, StageConfirmation, StageCanceled,
		},
	}
}

// CanTransition reports whether the machine permits moving from one stage
// to another, ignoring stage guards.
func CanTransition(from, to Stage) bool {
	for _, next := range Transitions()[from] {
		if next == to {
			return true
		}
	}
	return false
}
