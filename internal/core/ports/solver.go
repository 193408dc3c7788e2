package ports

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/services"
)

// ErrSolverTimeout is returned when the solver process exceeds its deadline.
var ErrSolverTimeout = errors.New("solver timed out")

// SolverProcessError reports a solver process that failed to start or exited
// with a non-zero code. Stderr carries the tail of the process's diagnostics.
type SolverProcessError struct {
	Stderr string
	Cause  error
}

func (e *SolverProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("solver process failed: %v: %s", e.Cause, e.Stderr)
	}
	return fmt.Sprintf("solver process failed: %v", e.Cause)
}

func (e *SolverProcessError) Unwrap() error {
	return e.Cause
}

// SolverOutputError reports solver output that could not be decoded or that
// does not answer the problem that was sent.
type SolverOutputError struct {
	Cause error
}

func (e *SolverOutputError) Error() string {
	return fmt.Sprintf("solver output is invalid: %v", e.Cause)
}

func (e *SolverOutputError) Unwrap() error {
	return e.Cause
}

// SolverInfeasibleError reports a well-formed solver answer that found no
// feasible assignment for the problem.
type SolverInfeasibleError struct {
	Status  string
	Message string
}

func (e *SolverInfeasibleError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("solver found no feasible solution (%s): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("solver found no feasible solution (%s)", e.Status)
}

// Solver runs the capacitated vehicle routing solver on a problem snapshot.
type Solver interface {
	// Solve blocks until the solver answers or ctx expires. Failures are
	// classified: ErrSolverTimeout on deadline, SolverProcessError when the
	// process breaks, SolverOutputError when the answer cannot be decoded,
	// SolverInfeasibleError when no assignment exists.
	Solve(ctx context.Context, problem *services.RoutingProblem) (services.Solution, error)
}
