package models

import "time"

// Customer is consumed read-mostly by the booking core; the one field this
// service writes is HasPendingReview, cleared when a booking is created.
type Customer struct {
	ID               string    `bson:"id" json:"id"`
	Name             string    `bson:"name" json:"name"`
	Email            string    `bson:"email" json:"email"`
	Phone            string    `bson:"phone,omitempty" json:"phone,omitempty"`
	HasPendingReview bool      `bson:"has_pending_review" json:"hasPendingReview"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updatedAt"`
}

// Provider owns schedules; profile management happens elsewhere.
type Provider struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
