// Package delivery implements the Delivery aggregate, the record binding one order
// to one driver with a computed route, distance and travel time estimate.
package delivery
