package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrCustomerNameIsRequired  = errors.New("customer name is required")
	ErrCustomerPhoneIsRequired = errors.New("customer phone is required")
	ErrOrderItemsAreRequired   = errors.New("at least one item is required")
	ErrOrderAddressIsRequired  = errors.New("address is required")
	ErrDemandIsInvalid         = errors.New("demand must be greater than 0")
)

// CreateOrderCommand represents a request to register a new delivery order.
// Carries the customer contact, the ordered items, the capacity demand and
// the geocoded delivery location.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	customerName string
	phone        string
	items        []string
	demand       int
	address      string
	location     kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new delivery order.
// Validates identity, contact fields, items, demand and the location.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerName string,
	phone string,
	items []string,
	demand int,
	address string,
	location kernel.GeoPoint,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setCustomerName(customerName),
		orderCommand.setPhone(phone),
		orderCommand.setItems(items),
		orderCommand.setDemand(demand),
		orderCommand.setAddress(address),
		orderCommand.setLocation(location),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerName returns the recipient's name.
func (c CreateOrderCommand) CustomerName() string {
	return c.customerName
}

// Phone returns the recipient's phone number.
func (c CreateOrderCommand) Phone() string {
	return c.phone
}

// Items returns the ordered item list.
func (c CreateOrderCommand) Items() []string {
	return c.items
}

// Demand returns the capacity units the order consumes.
func (c CreateOrderCommand) Demand() int {
	return c.demand
}

// Address returns the delivery address text.
func (c CreateOrderCommand) Address() string {
	return c.address
}

// Location returns the delivery coordinate.
func (c CreateOrderCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerName(customerName string) error {
	if customerName == "" {
		return ErrCustomerNameIsRequired
	}

	c.customerName = customerName
	return nil
}

func (c *CreateOrderCommand) setPhone(phone string) error {
	if phone == "" {
		return ErrCustomerPhoneIsRequired
	}

	c.phone = phone
	return nil
}

func (c *CreateOrderCommand) setItems(items []string) error {
	if len(items) == 0 {
		return ErrOrderItemsAreRequired
	}

	c.items = make([]string, len(items))
	copy(c.items, items)
	return nil
}

func (c *CreateOrderCommand) setDemand(demand int) error {
	if demand <= 0 {
		return ErrDemandIsInvalid
	}

	c.demand = demand
	return nil
}

func (c *CreateOrderCommand) setAddress(address string) error {
	if address == "" {
		return ErrOrderAddressIsRequired
	}

	c.address = address
	return nil
}

func (c *CreateOrderCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
