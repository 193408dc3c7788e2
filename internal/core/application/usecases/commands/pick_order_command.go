package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrPickOrderCommandIsNotConstructed = errors.New(
	"PickOrderCommand must be created via NewPickOrderCommand constructor",
)

// PickOrderCommand represents a courier collecting an order at the depot.
type PickOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewPickOrderCommand creates a command to record an order pickup.
func NewPickOrderCommand(orderID kernel.UUID) (PickOrderCommand, error) {
	pickCommand := PickOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := pickCommand.setOrderID(orderID); err != nil {
		return PickOrderCommand{}, err
	}

	return pickCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c PickOrderCommand) Validate() error {
	return c.guard.Validate(ErrPickOrderCommandIsNotConstructed)
}

// OrderID returns the order being picked up.
func (c PickOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *PickOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
