package queries

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCourierRouteQueryHandler reads a courier's current route and estimates
// its geometry. The road network provider is asked first; any failure there
// degrades to the haversine estimate instead of failing the query.
type GetCourierRouteQueryHandler struct {
	db         *gorm.DB
	directions ports.DirectionsProvider
	estimator  services.RouteEstimator
	logger     *slog.Logger
}

// NewGetCourierRouteQueryHandler creates a handler for courier route queries.
// directions may be nil, in which case every estimate uses haversine.
func NewGetCourierRouteQueryHandler(
	db *gorm.DB,
	directions ports.DirectionsProvider,
	estimator services.RouteEstimator,
	logger *slog.Logger,
) GetCourierRouteQueryHandler {
	return GetCourierRouteQueryHandler{
		db:         db,
		directions: directions,
		estimator:  estimator,
		logger:     logger,
	}
}

// Handle executes the route query.
func (h GetCourierRouteQueryHandler) Handle(
	ctx context.Context,
	query GetCourierRouteQuery,
) (GetCourierRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCourierRouteQueryResponse{}, err
	}

	resp, err := h.readCourier(ctx, query.CourierID())
	if err != nil {
		return GetCourierRouteQueryResponse{}, err
	}

	resp.Stops, err = h.readStops(ctx, query.CourierID())
	if err != nil {
		return GetCourierRouteQueryResponse{}, err
	}

	// Delivered stops stay listed for display but are behind the courier, so
	// the distance and duration cover only the remaining stops.
	waypoints := make([]kernel.GeoPoint, 0, len(resp.Stops))
	for _, stop := range resp.Stops {
		if stop.Status == courier.StopDelivered.String() {
			continue
		}
		waypoints = append(waypoints, stop.Location)
	}
	if len(waypoints) == 0 {
		return resp, nil
	}

	depotLocation, err := h.readActiveDepot(ctx)
	if err != nil {
		return GetCourierRouteQueryResponse{}, err
	}

	points := make([]kernel.GeoPoint, 0, len(waypoints)+2)
	points = append(points, depotLocation)
	points = append(points, waypoints...)
	points = append(points, depotLocation)

	plan, source := h.estimate(ctx, query.CourierID(), points)
	resp.TotalDistanceKm = plan.TotalDistanceKm
	resp.TotalDurationMin = plan.TotalDurationMin
	resp.Source = source
	return resp, nil
}

// estimate tries the directions provider and falls back to haversine on any
// failure.
func (h GetCourierRouteQueryHandler) estimate(
	ctx context.Context, courierID kernel.UUID, points []kernel.GeoPoint,
) (services.RoutePlan, string) {
	if h.directions != nil {
		plan, err := h.directions.GetRoute(ctx, points)
		if err == nil {
			return plan, RouteSourceDirections
		}
		h.logger.Warn("directions provider failed, using haversine estimate",
			"courier", courierID.String(), "error", err)
	}

	return h.estimator.Estimate(points), RouteSourceHaversine
}

func (h GetCourierRouteQueryHandler) readCourier(
	ctx context.Context, courierID kernel.UUID,
) (GetCourierRouteQueryResponse, error) {
	var resp GetCourierRouteQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT id, name, available
		FROM couriers
		WHERE id = ?
	`, courierID.Bytes()).Row()

	var id uuid.UUID
	if err := row.Scan(&id, &resp.CourierName, &resp.Available); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resp, errs.NewObjectNotFoundError("courier", courierID.String())
		}
		return resp, err
	}

	courierUUID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return resp, err
	}
	resp.CourierID = courierUUID
	resp.Stops = make([]GetCourierRouteStopResponse, 0)
	return resp, nil
}

func (h GetCourierRouteQueryHandler) readStops(
	ctx context.Context, courierID kernel.UUID,
) ([]GetCourierRouteStopResponse, error) {
	stops := make([]GetCourierRouteStopResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT order_id, address, lat, lng, status
		FROM route_stops
		WHERE courier_id = ?
		ORDER BY seq
	`, courierID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var stop GetCourierRouteStopResponse
		var orderID uuid.UUID
		var lat, lng float64

		if err = rows.Scan(&orderID, &stop.Address, &lat, &lng, &stop.Status); err != nil {
			return nil, err
		}

		stopOrderID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		stop.OrderID = stopOrderID

		location, locErr := kernel.NewGeoPoint(lat, lng)
		if locErr != nil {
			return nil, locErr
		}
		stop.Location = location
		stops = append(stops, stop)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stops, nil
}

func (h GetCourierRouteQueryHandler) readActiveDepot(ctx context.Context) (kernel.GeoPoint, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT lat, lng
		FROM depots
		WHERE is_active = true
		ORDER BY created_at DESC
		LIMIT 1
	`).Row()

	var lat, lng float64
	if err := row.Scan(&lat, &lng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kernel.GeoPoint{}, errs.NewObjectNotFoundError("depot", "active")
		}
		return kernel.GeoPoint{}, err
	}

	return kernel.NewGeoPoint(lat, lng)
}
