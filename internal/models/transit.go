package models

// Seat, Station and Trip are declared ahead of their services; the routes
// for these resources are registered but respond not-implemented.

// Seat is a numbered place on a bus.
type Seat struct {
	ID        string `dynamodbav:"primaryKey" json:"id"`
	BusID     string `dynamodbav:"busId" json:"bus_id"`
	Number    int    `dynamodbav:"number" json:"number"`
	Active    bool   `dynamodbav:"estado" json:"active"`
	CreatedAt int64  `dynamodbav:"createdAt" json:"created_at"`
}

// Station is a boarding point on a route.
type Station struct {
	ID        string `dynamodbav:"primaryKey" json:"id"`
	Name      string `dynamodbav:"name" json:"name"`
	City      string `dynamodbav:"city" json:"city"`
	Active    bool   `dynamodbav:"estado" json:"active"`
	CreatedAt int64  `dynamodbav:"createdAt" json:"created_at"`
}

// Trip is a scheduled journey between two stations.
type Trip struct {
	ID            string `dynamodbav:"primaryKey" json:"id"`
	BusID         string `dynamodbav:"busId" json:"bus_id"`
	OriginID      string `dynamodbav:"originId" json:"origin_id"`
	DestinationID string `dynamodbav:"destinationId" json:"destination_id"`
	DepartsAt     int64  `dynamodbav:"departsAt" json:"departs_at"`
	Active        bool   `dynamodbav:"estado" json:"active"`
	CreatedAt     int64  `dynamodbav:"createdAt" json:"created_at"`
}
