package delivery

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

type Status int

const (
	Unknown Status = iota
	Active
	Delivered
)

var statusNames = map[Status]string{
	Active:    "active",
	Delivered: "delivered",
}

func ParseStatus(s string) (Status, error) {
	for st, n := range statusNames {
		if n == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("deliveryStatus", fmt.Errorf("%q is not a known status", s))
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}
