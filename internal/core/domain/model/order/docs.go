// Package order implements the Order aggregate and its lifecycle state machine.
//
// Lifecycle:
//
//	pending ──> confirmed ──> preparing ──> out_for_delivery ──> delivered
//	   │            │
//	   └────────────┴──> cancelled
//
// delivered and cancelled are terminal. Entering out_for_delivery raises
// EnteredOutForDelivery, which drives driver assignment, and puts the order into
// the pending_assignment assignment state until a driver is attached.
//
// The delivery fee is finalized at most once, either from a computed quote or from
// the configured fallback, and is never recalculated afterwards.
package order
