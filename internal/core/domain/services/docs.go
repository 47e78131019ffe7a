// Package services provides the pure domain services of the dispatch flow:
//   - FeePolicy: delivery fee from trip distance
//   - TravelTimeEstimator: travel time from trip distance
//   - DeliveryQuoter: distance, fee and travel time for a pickup/dropoff pair
//   - DriverLocator: nearest available driver within a search radius
//
// None of them perform I/O; candidates and coordinates are supplied by the caller.
package services
