package order

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// AssignmentStatus tracks the driver assignment of an order once it is out for delivery.
type AssignmentStatus int

const (
	AssignmentNone AssignmentStatus = iota
	// AssignmentPending marks an order with no driver yet; it is retried later.
	AssignmentPending
	AssignmentAssigned
	// AssignmentManual marks an order that automatic assignment gave up on.
	AssignmentManual
)

var assignmentNames = map[AssignmentStatus]string{
	AssignmentNone:     "none",
	AssignmentPending:  "pending_assignment",
	AssignmentAssigned: "assigned",
	AssignmentManual:   "manual_intervention",
}

func ParseAssignmentStatus(s string) (AssignmentStatus, error) {
	for st, n := range assignmentNames {
		if n == strings.TrimSpace(s) {
			return st, nil
		}
	}
	return AssignmentNone, errs.NewValueIsInvalidErrorWithCause("assignmentStatus",
		fmt.Errorf("%q is not a known assignment status", s))
}

func (a AssignmentStatus) String() string {
	if n, ok := assignmentNames[a]; ok {
		return n
	}
	return "unknown"
}

// FeeSource records where a finalized delivery fee came from.
type FeeSource int

const (
	FeeUnset FeeSource = iota
	FeeQuoted
	FeeFallback
)

var feeSourceNames = map[FeeSource]string{
	FeeUnset:    "",
	FeeQuoted:   "quoted",
	FeeFallback: "fallback",
}

func ParseFeeSource(s string) (FeeSource, error) {
	for src, n := range feeSourceNames {
		if n == s {
			return src, nil
		}
	}
	return FeeUnset, errs.NewValueIsInvalidErrorWithCause("feeSource", fmt.Errorf("%q is not a known fee source", s))
}

func (f FeeSource) String() string {
	return feeSourceNames[f]
}
