// Package depot provides the Depot aggregate: the single fixed location all
// routes start and end at. Exactly one depot is active at a time; replacing
// the depot deactivates the previous one.
package depot

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for depot operations.
var (
	// ErrDepotIsNotConstructed is returned when using an improperly initialized Depot.
	ErrDepotIsNotConstructed = errors.New("Depot must be created via NewDepot or RestoreDepot constructor")
	// ErrNameIsRequired is returned when the depot name is empty.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrAddressIsRequired is returned when the depot address is empty.
	ErrAddressIsRequired = errs.NewValueIsRequiredError("address")
)

// Depot is the warehouse all couriers load at. Routes are cycles
// depot -> stops -> depot.
type Depot struct {
	id       kernel.UUID
	name     string
	address  string
	location kernel.GeoPoint
	isActive bool
	guard    guard.ConstructorGuard
}

// NewDepot creates an active depot at the given location.
func NewDepot(id kernel.UUID, name string, address string, location kernel.GeoPoint) (*Depot, error) {
	d := &Depot{
		isActive: true,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setAddress(address),
		d.setLocation(location),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDepot reconstructs a depot from persistent storage.
func RestoreDepot(
	id kernel.UUID,
	name string,
	address string,
	location kernel.GeoPoint,
	isActive bool,
) (*Depot, error) {
	d := &Depot{
		isActive: isActive,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setAddress(address),
		d.setLocation(location),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate ensures the Depot was created through a constructor.
func (d *Depot) Validate() error {
	if d == nil {
		return ErrDepotIsNotConstructed
	}
	return d.guard.Validate(ErrDepotIsNotConstructed)
}

// ID returns the depot's unique identifier.
func (d *Depot) ID() kernel.UUID {
	return d.id
}

// Name returns the depot name.
func (d *Depot) Name() string {
	return d.name
}

// Address returns the depot address text.
func (d *Depot) Address() string {
	return d.address
}

// Location returns the depot coordinate.
func (d *Depot) Location() kernel.GeoPoint {
	return d.location
}

// IsActive reports whether this is the depot assignment runs use.
func (d *Depot) IsActive() bool {
	return d.isActive
}

// Deactivate retires the depot. Called when a new depot replaces it.
func (d *Depot) Deactivate() {
	d.isActive = false
}

func (d *Depot) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Depot) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}

func (d *Depot) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}
	d.address = address
	return nil
}

func (d *Depot) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = location
	return nil
}
