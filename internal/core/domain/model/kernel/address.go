package kernel

import (
	"errors"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address")

// Address is a postal address. Street and city are mandatory; the remaining
// parts are optional.
type Address struct { //nolint:recvcheck // private setters are used during construction
	street  string
	city    string
	state   string
	zipCode string
	country string
	guard   guard.ConstructorGuard
}

func NewAddress(street, city, state, zipCode, country string) (Address, error) {
	a := Address{
		state:   strings.TrimSpace(state),
		zipCode: strings.TrimSpace(zipCode),
		country: strings.TrimSpace(country),
		guard:   guard.NewConstructorGuard(),
	}
	if err := errors.Join(a.setStreet(street), a.setCity(city)); err != nil {
		return Address{}, err
	}
	return a, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Street() string {
	return a.street
}

func (a Address) City() string {
	return a.city
}

func (a Address) State() string {
	return a.state
}

func (a Address) ZipCode() string {
	return a.zipCode
}

func (a Address) Country() string {
	return a.country
}

// Text renders the address as a single line, the form sent to geocoders.
func (a Address) Text() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.street, a.city, a.state, a.zipCode, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (a Address) String() string {
	return a.Text()
}

func (a *Address) setStreet(street string) error {
	street = strings.TrimSpace(street)
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}
