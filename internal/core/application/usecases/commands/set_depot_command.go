package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrSetDepotCommandIsNotConstructed = errors.New(
		"SetDepotCommand must be created via NewSetDepotCommand constructor",
	)
	ErrDepotNameIsRequired    = errors.New("depot name is required")
	ErrDepotAddressIsRequired = errors.New("depot address is required")
)

// SetDepotCommand represents a request to configure the active depot.
// Setting a depot retires the previous one; routes always use the newest.
type SetDepotCommand struct { //nolint:recvcheck //using for validation
	depotID  kernel.UUID
	name     string
	address  string
	location kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewSetDepotCommand creates a command to configure the active depot.
func NewSetDepotCommand(
	depotID kernel.UUID,
	name string,
	address string,
	location kernel.GeoPoint,
) (SetDepotCommand, error) {
	depotCommand := SetDepotCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		depotCommand.setDepotID(depotID),
		depotCommand.setName(name),
		depotCommand.setAddress(address),
		depotCommand.setLocation(location),
	); err != nil {
		return SetDepotCommand{}, err
	}

	return depotCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c SetDepotCommand) Validate() error {
	return c.guard.Validate(ErrSetDepotCommandIsNotConstructed)
}

// DepotID returns the unique identifier for the depot.
func (c SetDepotCommand) DepotID() kernel.UUID {
	return c.depotID
}

// Name returns the depot name.
func (c SetDepotCommand) Name() string {
	return c.name
}

// Address returns the depot address text.
func (c SetDepotCommand) Address() string {
	return c.address
}

// Location returns the depot coordinate.
func (c SetDepotCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c *SetDepotCommand) setDepotID(depotID kernel.UUID) error {
	if err := depotID.Validate(); err != nil {
		return err
	}

	c.depotID = depotID
	return nil
}

func (c *SetDepotCommand) setName(name string) error {
	if name == "" {
		return ErrDepotNameIsRequired
	}

	c.name = name
	return nil
}

func (c *SetDepotCommand) setAddress(address string) error {
	if address == "" {
		return ErrDepotAddressIsRequired
	}

	c.address = address
	return nil
}

func (c *SetDepotCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
