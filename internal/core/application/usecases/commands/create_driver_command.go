package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateDriverCommandIsNotConstructed = errors.New(
	"CreateDriverCommand must be created via NewCreateDriverCommand constructor",
)

// CreateDriverCommand registers a driver at their current location.
//
// Example:
//
//	loc, _ := kernel.NewLocation(6.9271, 79.8612)
//	cmd, err := NewCreateDriverCommand(kernel.NewUUID(), "Nimal", loc)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type CreateDriverCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	name     string
	location kernel.Location

	guard guard.ConstructorGuard
}

func NewCreateDriverCommand(driverID kernel.UUID, name string, location kernel.Location) (CreateDriverCommand, error) {
	cmd := CreateDriverCommand{guard: guard.NewConstructorGuard()}
	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setName(name),
		cmd.setLocation(location),
	); err != nil {
		return CreateDriverCommand{}, err
	}
	return cmd, nil
}

func (c CreateDriverCommand) Validate() error {
	return c.guard.Validate(ErrCreateDriverCommandIsNotConstructed)
}

func (c CreateDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c CreateDriverCommand) Name() string {
	return c.name
}

func (c CreateDriverCommand) Location() kernel.Location {
	return c.location
}

func (c *CreateDriverCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.driverID = id
	return nil
}

func (c *CreateDriverCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *CreateDriverCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}
