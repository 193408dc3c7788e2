package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateCourierCommandIsNotConstructed = errors.New(
		"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
	)
	ErrCourierNameIsRequired  = errors.New("courier name is required")
	ErrCourierPhoneIsRequired = errors.New("courier phone is required")
	ErrCapacityIsInvalid      = errors.New("capacity must be greater than 0")
)

// CreateCourierCommand represents a request to register a new courier.
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string
	phone     string
	capacity  int

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand creates a command to register a new courier.
// Validates that the ID is valid, name and phone are not empty, and capacity
// is positive.
func NewCreateCourierCommand(
	courierID kernel.UUID,
	name string,
	phone string,
	capacity int,
) (CreateCourierCommand, error) {
	courierCommand := CreateCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courierCommand.setCourierID(courierID),
		courierCommand.setName(name),
		courierCommand.setPhone(phone),
		courierCommand.setCapacity(capacity),
	); err != nil {
		return CreateCourierCommand{}, err
	}

	return courierCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

// CourierID returns the unique identifier for the courier.
func (c CreateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Name returns the courier's name.
func (c CreateCourierCommand) Name() string {
	return c.name
}

// Phone returns the courier's phone number.
func (c CreateCourierCommand) Phone() string {
	return c.phone
}

// Capacity returns the maximum demand the courier can carry.
func (c CreateCourierCommand) Capacity() int {
	return c.capacity
}

func (c *CreateCourierCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *CreateCourierCommand) setName(name string) error {
	if name == "" {
		return ErrCourierNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateCourierCommand) setPhone(phone string) error {
	if phone == "" {
		return ErrCourierPhoneIsRequired
	}

	c.phone = phone
	return nil
}

func (c *CreateCourierCommand) setCapacity(capacity int) error {
	if capacity <= 0 {
		return ErrCapacityIsInvalid
	}

	c.capacity = capacity
	return nil
}
