// Package kernel holds the value objects shared by every aggregate of the dispatch
// domain: identifiers, geographic locations and postal addresses.
//
// All values are immutable and must be built through their constructors; a zero value
// fails Validate. Distances between locations are great-circle distances in kilometres.
package kernel
