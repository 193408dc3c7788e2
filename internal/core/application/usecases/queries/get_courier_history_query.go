package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetCourierHistoryQueryIsNotConstructed = errors.New(
	"GetCourierHistoryQuery must be created via NewGetCourierHistoryQuery constructor",
)

// GetCourierHistoryQuery retrieves the completed rounds of one courier,
// newest first.
type GetCourierHistoryQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCourierHistoryQuery creates a query for the given courier's history.
func NewGetCourierHistoryQuery(courierID kernel.UUID) (GetCourierHistoryQuery, error) {
	historyQuery := GetCourierHistoryQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := historyQuery.setCourierID(courierID); err != nil {
		return GetCourierHistoryQuery{}, err
	}

	return historyQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierHistoryQueryIsNotConstructed)
}

// CourierID returns the courier whose history is requested.
func (q GetCourierHistoryQuery) CourierID() kernel.UUID {
	return q.courierID
}

func (q *GetCourierHistoryQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	q.courierID = courierID
	return nil
}

// GetCourierHistoryQueryResponse represents one completed round in the read
// model.
type GetCourierHistoryQueryResponse struct {
	ID                 kernel.UUID
	OrderIDs           []string
	TotalDistanceKm    float64
	TotalTimeMin       float64
	CompletedAt        time.Time
	OrdersDelivered    int
	OnTimeDeliveries   int
	AverageDeliveryMin float64
}
