// Package osrm queries an OSRM routing server for road-network routes. The
// public demo server works out of the box; self-hosted instances are selected
// through the base URL.
package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

const (
	// DefaultBaseURL points at the public OSRM demo server.
	DefaultBaseURL = "https://router.project-osrm.org"
	// DefaultTimeout bounds one routing request.
	DefaultTimeout = 10 * time.Second

	metersPerKm      = 1000.0
	secondsPerMinute = 60.0
)

var errTooFewPoints = errors.New("a route needs at least two points")

// DirectionsClient implements ports.DirectionsProvider against the OSRM HTTP
// API. It is safe for concurrent use.
type DirectionsClient struct {
	session *http.Client
	baseURL string
}

// NewDirectionsClient creates a client for the OSRM server at baseURL. An
// empty baseURL selects the public demo server; a non-positive timeout falls
// back to DefaultTimeout.
func NewDirectionsClient(baseURL string, timeout time.Duration) *DirectionsClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &DirectionsClient{
		session: &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// osrmResponse is the subset of the OSRM route answer the client consumes.
type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Legs     []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// GetRoute returns the driving route visiting the points in order. Distances
// come back in kilometres and durations in minutes.
func (c *DirectionsClient) GetRoute(
	ctx context.Context,
	points []kernel.GeoPoint,
) (services.RoutePlan, error) {
	if len(points) < 2 {
		return services.RoutePlan{}, errTooFewPoints
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.routeURL(points), nil)
	if err != nil {
		return services.RoutePlan{}, err
	}

	response, err := c.session.Do(request)
	if err != nil {
		return services.RoutePlan{}, fmt.Errorf("querying OSRM: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return services.RoutePlan{}, fmt.Errorf("OSRM returned status %d", response.StatusCode)
	}

	var decoded osrmResponse
	if err = json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return services.RoutePlan{}, fmt.Errorf("decoding OSRM response: %w", err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return services.RoutePlan{}, fmt.Errorf("OSRM found no route (code %q)", decoded.Code)
	}

	route := decoded.Routes[0]
	if len(route.Legs) != len(points)-1 {
		return services.RoutePlan{}, fmt.Errorf(
			"OSRM returned %d legs for %d points", len(route.Legs), len(points))
	}

	plan := services.RoutePlan{
		Legs:             make([]services.RouteLeg, 0, len(route.Legs)),
		TotalDistanceKm:  route.Distance / metersPerKm,
		TotalDurationMin: route.Duration / secondsPerMinute,
	}
	for i, leg := range route.Legs {
		plan.Legs = append(plan.Legs, services.RouteLeg{
			From:        points[i],
			To:          points[i+1],
			DistanceKm:  leg.Distance / metersPerKm,
			DurationMin: leg.Duration / secondsPerMinute,
		})
	}

	return plan, nil
}

// routeURL builds the OSRM route endpoint URL. OSRM expects coordinates in
// lng,lat order.
func (c *DirectionsClient) routeURL(points []kernel.GeoPoint) string {
	coordinates := make([]string, 0, len(points))
	for _, point := range points {
		coordinates = append(coordinates,
			strconv.FormatFloat(point.Lng(), 'f', -1, 64)+","+
				strconv.FormatFloat(point.Lat(), 'f', -1, 64))
	}

	return c.baseURL + "/route/v1/driving/" +
		strings.Join(coordinates, ";") + "?overview=full"
}
