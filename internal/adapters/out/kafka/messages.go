package kafka

import "time"

// Coordinates is a WGS84 point on the wire.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type OrderStatusChangedMessage struct {
	EventID    string    `json:"event_id"`
	OrderID    string    `json:"order_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

type DeliveryAssignedMessage struct {
	EventID          string      `json:"event_id"`
	DeliveryID       string      `json:"delivery_id"`
	OrderID          string      `json:"order_id"`
	DriverID         string      `json:"driver_id"`
	Pickup           Coordinates `json:"pickup"`
	Dropoff          Coordinates `json:"dropoff"`
	DistanceKm       float64     `json:"distance_km"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	OccurredAt       time.Time   `json:"occurred_at"`
}

type DeliveryCompletedMessage struct {
	EventID    string    `json:"event_id"`
	DeliveryID string    `json:"delivery_id"`
	OrderID    string    `json:"order_id"`
	DriverID   string    `json:"driver_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
