package models

import "time"

// BookingStatus is the lifecycle axis of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingInProgress BookingStatus = "IN_PROGRESS"
	BookingCompleted  BookingStatus = "COMPLETED"
	BookingCancelled  BookingStatus = "CANCELLED"
)

// bookingTransitions is the single transition table; no skipping states, no
// transitions out of COMPLETED or CANCELLED.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingInProgress, BookingCancelled},
	BookingInProgress: {BookingCompleted, BookingCancelled},
	BookingCompleted:  {},
	BookingCancelled:  {},
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// PaymentStatus is tracked independently of BookingStatus.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
	PaymentFailed   PaymentStatus = "FAILED"
)

// CancelStatus tracks an in-flight or finished cancellation.
type CancelStatus string

const (
	CancelNone       CancelStatus = ""
	CancelInProgress CancelStatus = "IN_PROGRESS"
	CancelCancelled  CancelStatus = "CANCELLED"
)

// CancelActor identifies who initiated a cancellation. The cancellation
// window binds customers only.
type CancelActor string

const (
	ActorCustomer CancelActor = "customer"
	ActorProvider CancelActor = "provider"
)

// ServiceSelection is one selected catalog item with its chosen sub-items.
type ServiceSelection struct {
	ServiceID     string   `bson:"service_id" json:"serviceId" binding:"required"`
	SubServiceIDs []string `bson:"sub_service_ids" json:"subServiceIds"`
}

// Booking is created only as the side effect of a successful slot claim and
// is never deleted; cancellation is a status, not a removal.
type Booking struct {
	ID                  string             `bson:"id" json:"id"`
	CustomerID          string             `bson:"customer_id" json:"customerId"`
	ProviderID          string             `bson:"provider_id" json:"providerId"`
	TotalAmount         float64            `bson:"total_amount" json:"totalAmount"`
	Location            Location           `bson:"location" json:"location"`
	ScheduleRef         SlotRef            `bson:"schedule_ref" json:"scheduleRef"`
	Services            []ServiceSelection `bson:"services" json:"services"`
	ExpectedArrivalTime time.Time          `bson:"expected_arrival_time" json:"expectedArrivalTime"`
	ActualArrivalTime   *time.Time         `bson:"actual_arrival_time,omitempty" json:"actualArrivalTime,omitempty"`
	BookingStatus       BookingStatus      `bson:"booking_status" json:"bookingStatus"`
	PaymentStatus       PaymentStatus      `bson:"payment_status" json:"paymentStatus"`
	CancelStatus        CancelStatus       `bson:"cancel_status,omitempty" json:"cancelStatus,omitempty"`
	CancellationReason  string             `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CancelledAt         *time.Time         `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	TransactionID       string             `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	CreatedAt           time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updated_at" json:"updatedAt"`
}
