package bookingRepo

import (
	"context"
	"time"

	"servihub/models"
)

// BookingRepository persists booking records. Status mutations are
// conditional updates guarded on the current state so racing writers lose
// at the storage layer, not in application code.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(bookingID string) (*models.Booking, error)
	UpdateStatus(bookingID string, from, to models.BookingStatus) (bool, error)
	BeginCancel(bookingID string) (bool, error)
	MarkCancelled(bookingID, reason string, at time.Time) (bool, error)
	AttachTransaction(bookingID, transactionID string) (bool, error)
	SetPaymentStatus(bookingID string, from, to models.PaymentStatus) (bool, error)
	SetActualArrival(bookingID string, at time.Time) error
	ListByCustomer(customerID string) ([]models.Booking, error)
	ListByProviderDate(providerID, date string) ([]models.Booking, error)
	HasLiveBookingForSlot(ref models.SlotRef) (bool, error)
}
