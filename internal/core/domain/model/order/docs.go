// Package order contains the Order aggregate and its owned entities:
// line items, shipments, payments, and adjustments.
//
// The aggregate is the unit of consistency for checkout. All content
// mutations go through validated methods on Order, and the monetary totals
// are only ever written through ApplyReconciliation, which enforces the
// totals identities:
//
//	total == itemTotal + shipmentTotal + adjustmentTotal
//	adjustmentTotal == additionalTaxTotal + includedTaxTotal + promoTotal
//
// Checkout progression is modeled by Stage, an explicit finite-state machine
// with a queryable transition table. Payment and shipment statuses are
// derived fields recomputed during reconciliation, never set directly by
// callers.
package order
