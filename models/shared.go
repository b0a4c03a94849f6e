package models

// Location is where the service is rendered.
type Location struct {
	Address     string    `bson:"address" json:"address"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [lng, lat]
}

// Notification is a fire-and-forget message produced on booking state
// transitions; delivery transport lives outside this service.
type Notification struct {
	Target    string            `json:"target"` // customer or provider id
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	BookingID string            `json:"bookingId,omitempty"`
}
