// Package shipping holds the fulfillment option model: zones, shipping
// methods with their category match policies, and the cost calculators a
// method delegates pricing and availability to.
package shipping
