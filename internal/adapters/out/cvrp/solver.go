// Package cvrp runs an external capacitated vehicle routing solver as a
// subprocess. The problem is written to the process's stdin as JSON and the
// answer is read back from stdout, so any solver honoring the wire contract
// can be plugged in through configuration.
package cvrp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// DefaultTimeout bounds one solver run. The solver's own search limit is
// shorter, so hitting this deadline means the process is stuck.
const DefaultTimeout = 60 * time.Second

// stderrTailLimit caps how much solver stderr is carried into errors.
const stderrTailLimit = 2048

var errEmptyCommand = errors.New("solver command is empty")

// ProcessSolver implements ports.Solver by spawning a solver executable per
// run. It is safe for concurrent use; each call gets its own process.
type ProcessSolver struct {
	command string
	args    []string
	timeout time.Duration
}

// NewProcessSolver creates a solver around the given executable and
// arguments, e.g. ("python3", "scripts/cvrp_solver.py"). A non-positive
// timeout falls back to DefaultTimeout.
func NewProcessSolver(command string, args []string, timeout time.Duration) (*ProcessSolver, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errEmptyCommand
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &ProcessSolver{
		command: command,
		args:    args,
		timeout: timeout,
	}, nil
}

// Solve runs one solver process for the problem and decodes its answer.
func (s *ProcessSolver) Solve(
	ctx context.Context,
	problem *services.RoutingProblem,
) (services.Solution, error) {
	request, err := json.Marshal(newSolverRequest(problem))
	if err != nil {
		return services.Solution{}, &ports.SolverOutputError{Cause: err}
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, s.command, s.args...)
	cmd.Stdin = bytes.NewReader(request)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err = cmd.Run(); err != nil {
		if runCtx.Err() != nil {
			return services.Solution{}, fmt.Errorf("%w after %s", ports.ErrSolverTimeout, s.timeout)
		}
		return services.Solution{}, &ports.SolverProcessError{
			Stderr: stderrTail(stderr.Bytes()),
			Cause:  err,
		}
	}

	var response solverResponse
	if err = json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return services.Solution{}, &ports.SolverOutputError{
			Cause: fmt.Errorf("decoding solver stdout: %w", err),
		}
	}

	return mapResponse(response, problem)
}

// solverRequest is the JSON document written to the solver's stdin.
// Locations travel as [lat, lng] pairs.
type solverRequest struct {
	Depot             [2]float64           `json:"depot"`
	Orders            []solverRequestOrder `json:"orders"`
	VehicleCapacities []int                `json:"vehicle_capacities"`
}

type solverRequestOrder struct {
	ID       string     `json:"id"`
	Location [2]float64 `json:"location"`
	Demand   int        `json:"demand"`
}

func newSolverRequest(problem *services.RoutingProblem) solverRequest {
	orders := make([]solverRequestOrder, 0, len(problem.Orders()))
	for _, o := range problem.Orders() {
		orders = append(orders, solverRequestOrder{
			ID:       o.ID().String(),
			Location: o.Location().LatLng(),
			Demand:   o.Demand(),
		})
	}

	return solverRequest{
		Depot:             problem.Depot().LatLng(),
		Orders:            orders,
		VehicleCapacities: problem.VehicleCapacities(),
	}
}

// solverResponse is the JSON document read from the solver's stdout. Routes
// are keyed "vehicle_<index>" where the index refers to the capacities slice
// of the request.
type solverResponse struct {
	Routes        map[string]solverResponseRoute `json:"routes"`
	TotalDistance float64                        `json:"total_distance"`
	Status        string                         `json:"status"`
	Error         string                         `json:"error"`
}

type solverResponseRoute struct {
	Route        []solverResponsePoint `json:"route"`
	Distance     float64               `json:"distance"`
	DemandServed int                   `json:"demand_served"`
}

type solverResponsePoint struct {
	Type    string     `json:"type"`
	OrderID string     `json:"orderId"`
	Loc     [2]float64 `json:"location"`
}

func mapResponse(
	response solverResponse,
	problem *services.RoutingProblem,
) (services.Solution, error) {
	// Infeasibility is signaled by the error field alone; the status string
	// is informational and carried along for diagnostics.
	if response.Error != "" {
		return services.Solution{}, &ports.SolverInfeasibleError{
			Status:  response.Status,
			Message: response.Error,
		}
	}

	solution := services.Solution{
		Routes:          make(map[int]services.VehicleRoute, len(response.Routes)),
		TotalDistanceKm: response.TotalDistance,
	}

	for _, key := range sortedRouteKeys(response.Routes) {
		vehicle, err := parseVehicleIndex(key)
		if err != nil {
			return services.Solution{}, &ports.SolverOutputError{Cause: err}
		}

		route, err := mapRoute(response.Routes[key], problem)
		if err != nil {
			return services.Solution{}, err
		}
		if len(route.Stops) == 0 {
			continue
		}
		solution.Routes[vehicle] = route
	}

	return solution, nil
}

func mapRoute(
	raw solverResponseRoute,
	problem *services.RoutingProblem,
) (services.VehicleRoute, error) {
	route := services.VehicleRoute{
		Stops:        make([]services.SolutionStop, 0, len(raw.Route)),
		DistanceKm:   raw.Distance,
		DemandServed: raw.DemandServed,
	}

	for _, point := range raw.Route {
		// Warehouse markers frame every route; only order visits matter.
		if point.Type != "order" {
			continue
		}

		orderID, err := kernel.UUIDFromString(point.OrderID)
		if err != nil {
			return services.VehicleRoute{}, &ports.SolverOutputError{Cause: err}
		}

		routedOrder, ok := problem.OrderByID(orderID)
		if !ok {
			return services.VehicleRoute{}, &ports.SolverOutputError{
				Cause: fmt.Errorf("solver returned order %s that is not part of the problem",
					point.OrderID),
			}
		}

		route.Stops = append(route.Stops, services.SolutionStop{
			OrderID:  routedOrder.ID(),
			Location: routedOrder.Location(),
		})
	}

	return route, nil
}

func parseVehicleIndex(key string) (int, error) {
	raw, ok := strings.CutPrefix(key, "vehicle_")
	if !ok {
		return 0, fmt.Errorf("unexpected route key %q", key)
	}

	vehicle, err := strconv.Atoi(raw)
	if err != nil || vehicle < 0 {
		return 0, fmt.Errorf("unexpected route key %q", key)
	}
	return vehicle, nil
}

func sortedRouteKeys(routes map[string]solverResponseRoute) []string {
	keys := make([]string, 0, len(routes))
	for key := range routes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func stderrTail(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) > stderrTailLimit {
		text = text[len(text)-stderrTailLimit:]
	}
	return text
}
