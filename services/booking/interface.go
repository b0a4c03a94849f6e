package booking

import (
	"context"
	"time"

	"servihub/models"
)

// BookingService is the outward face of the booking core: pricing, the
// claim-then-create flow, lifecycle transitions, and cancellation.
type BookingService interface {
	PriceBreakup(selections []models.ServiceSelection) (*models.PriceBreakup, error)
	CreateBooking(ctx context.Context, customerID string, in models.BookingRequestInput) (*models.Booking, error)
	GetBooking(bookingID string) (*models.Booking, error)
	ListCustomerBookings(customerID string) ([]models.Booking, error)
	ListProviderBookings(providerID, date string) ([]models.Booking, error)
	Transition(ctx context.Context, bookingID string, target models.BookingStatus) (*models.Booking, error)
	AttachTransaction(ctx context.Context, bookingID, transactionID string) error
	Refund(ctx context.Context, bookingID string) error
	RecordArrival(bookingID string, at time.Time) error
	Cancel(ctx context.Context, bookingID string, actor models.CancelActor, reason string) error
}
