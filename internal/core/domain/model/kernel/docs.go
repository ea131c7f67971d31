// Package kernel contains the shared value objects of the checkout domain:
// identifiers, currencies, monetary amounts, shipping addresses, and the
// store-wide configuration value.
//
// All types in this package are immutable value objects. They are created
// through factory functions that validate their inputs, and their zero values
// fail Validate(). This keeps every aggregate that embeds them in a provably
// valid state.
package kernel
