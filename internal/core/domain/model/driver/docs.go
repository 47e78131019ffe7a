// Package driver implements the Driver aggregate: identity, last known location,
// availability and the orders the driver is currently carrying.
//
// A driver is available only while carrying nothing. Accepting an order and losing
// availability happen in the same step, which is what the persistence layer's
// conditional claim relies on.
package driver
