// Package services provides the domain services that orchestrate business
// operations across multiple aggregates of the checkout engine.
//
// The package includes:
//   - TotalsReconciler: recomputes an order's totals and derived statuses
//     from its current line items, shipments, adjustments, and payments
//   - ShippingEligibility: decides which fulfillment options can serve an
//     order using calculator, zone, currency, and category gates
//   - CheckoutMachine: drives an order through the checkout stages,
//     re-reconciling totals after every mutation
//
// Domain services coordinate between aggregates, implementing business
// logic that spans multiple bounded contexts following Domain-Driven
// Design principles.
package services
