package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrRunAssignmentCommandIsNotConstructed = errors.New(
	"RunAssignmentCommand must be created via NewRunAssignmentCommand constructor",
)

// RunAssignmentCommand represents a request to run one assignment cycle over
// all pending orders and all available couriers. It carries no parameters;
// the run always routes the current pending set from the active depot.
type RunAssignmentCommand struct {
	guard guard.ConstructorGuard
}

// NewRunAssignmentCommand creates a command to trigger an assignment run.
func NewRunAssignmentCommand() (RunAssignmentCommand, error) {
	return RunAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RunAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRunAssignmentCommandIsNotConstructed)
}
