package dto

import (
	"github.com/norte-express/fleet-api/internal/models"
)

// CreateBusRequest captures the payload for registering a bus.
type CreateBusRequest struct {
	LicensePlate string `json:"license_plate" validate:"required,min=1"`
	Capacity     int    `json:"capacity" validate:"required,min=1"`
}

// UpdateBusRequest captures partial bus updates.
type UpdateBusRequest struct {
	LicensePlate *string `json:"license_plate" validate:"omitempty,min=1"`
	Capacity     *int    `json:"capacity" validate:"omitempty,min=1"`
}

// Empty reports whether the update carries no fields at all.
func (r UpdateBusRequest) Empty() bool {
	return r.LicensePlate == nil && r.Capacity == nil
}

// BusResponse serializes bus data.
type BusResponse struct {
	ID           string `json:"id"`
	LicensePlate string `json:"license_plate"`
	Capacity     int    `json:"capacity"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    *int64 `json:"updated_at"`
}

// NewBusResponse converts a bus model into a DTO.
func NewBusResponse(bus models.Bus) BusResponse {
	return BusResponse{
		ID:           bus.ID,
		LicensePlate: bus.LicensePlate,
		Capacity:     bus.Capacity,
		CreatedAt:    bus.CreatedAt,
		UpdatedAt:    bus.UpdatedAt,
	}
}
