package models

// Bus is a registered fleet vehicle. Active=false marks a soft-deleted bus.
type Bus struct {
	ID           string `dynamodbav:"primaryKey" json:"id"`
	LicensePlate string `dynamodbav:"licensePlate" json:"license_plate"`
	Capacity     int    `dynamodbav:"capacity" json:"capacity"`
	Active       bool   `dynamodbav:"estado" json:"active"`
	CreatedAt    int64  `dynamodbav:"createdAt" json:"created_at"`
	UpdatedAt    *int64 `dynamodbav:"updatedAt,omitempty" json:"updated_at"`
}
