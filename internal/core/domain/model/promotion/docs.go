// Package promotion holds the discount model: promotions with a closed set
// of eligibility rule kinds and the actions that turn an eligible promotion
// into order adjustments.
package promotion
