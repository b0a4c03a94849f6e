package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "servihub/database/repository/booking"
	customerRepo "servihub/database/repository/customer"
	"servihub/models"
	"servihub/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LifecycleManager creates booking records after a successful slot claim
// and owns the booking state machine. Payment status is a separate axis,
// synchronized here.
type LifecycleManager struct {
	Bookings  bookingRepo.BookingRepository
	Customers customerRepo.CustomerRepository
	Notifier  notification.NotificationService
	Logger    *zap.Logger
}

// CreateBooking builds and persists the booking using the slot returned by
// the reservation coordinator. PENDING on creation; PAID when a transaction
// id accompanies the request, UNPAID otherwise. Also clears the customer's
// pending-review flag for the review subsystem.
//
// If persistence fails the claimed slot has no booking; the caller owns the
// compensating release.
func (m *LifecycleManager) CreateBooking(
	ctx context.Context,
	customerID string,
	reservation *Reservation,
	selections []models.ServiceSelection,
	location models.Location,
	totalAmount float64,
	transactionID string,
) (*models.Booking, error) {
	now := time.Now()

	paymentStatus := models.PaymentUnpaid
	if transactionID != "" {
		paymentStatus = models.PaymentPaid
	}

	b := &models.Booking{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		ProviderID:  reservation.Slot.ProviderID,
		TotalAmount: totalAmount,
		Location:    location,
		ScheduleRef: models.SlotRef{
			ScheduleID: reservation.Slot.ScheduleID,
			Month:      reservation.Slot.Month,
			DayID:      reservation.Slot.DayID,
			SlotID:     reservation.Slot.SlotID,
		},
		Services:            selections,
		ExpectedArrivalTime: reservation.ExpectedArrival,
		BookingStatus:       models.BookingPending,
		PaymentStatus:       paymentStatus,
		TransactionID:       transactionID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := m.Bookings.CreateBooking(ctx, b); err != nil {
		return nil, &InternalError{Op: "create booking", Err: err}
	}

	if err := m.Customers.SetPendingReview(customerID, false); err != nil {
		// Cross-entity side effect for the review feature; the booking stands.
		m.Logger.Warn("failed to clear pending review flag",
			zap.String("customerId", customerID), zap.Error(err))
	}

	return b, nil
}

// Transition moves a booking to the target state if the transition table
// allows it. No skipping states, no transitions out of COMPLETED or
// CANCELLED. Cancellation is not reachable here: it carries policy (the
// window check) and a slot release, both owned by the CancellationEnforcer.
func (m *LifecycleManager) Transition(ctx context.Context, bookingID string, target models.BookingStatus) (*models.Booking, error) {
	if !target.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown booking status %q", target)}
	}
	if target == models.BookingCancelled {
		return nil, &PolicyViolationError{Message: "cancellation must go through the cancel flow"}
	}

	b, err := m.Bookings.GetBookingByID(bookingID)
	if err != nil {
		return nil, &InternalError{Op: "transition: fetch booking", Err: err}
	}
	if b == nil {
		return nil, &NotFoundError{Resource: "booking", ID: bookingID}
	}
	if !b.BookingStatus.CanTransitionTo(target) {
		return nil, &PolicyViolationError{
			Message: fmt.Sprintf("cannot transition booking from %s to %s", b.BookingStatus, target),
		}
	}

	modified, err := m.Bookings.UpdateStatus(bookingID, b.BookingStatus, target)
	if err != nil {
		return nil, &InternalError{Op: "transition: update status", Err: err}
	}
	if !modified {
		return nil, &ConflictError{Message: "booking changed concurrently, reload and retry"}
	}

	b.BookingStatus = target
	m.notify(ctx, b, "booking_"+string(target))
	return b, nil
}

// AttachTransaction records a successful payment, flipping UNPAID to PAID.
func (m *LifecycleManager) AttachTransaction(ctx context.Context, bookingID, transactionID string) error {
	b, err := m.Bookings.GetBookingByID(bookingID)
	if err != nil {
		return &InternalError{Op: "attach transaction: fetch booking", Err: err}
	}
	if b == nil {
		return &NotFoundError{Resource: "booking", ID: bookingID}
	}

	modified, err := m.Bookings.AttachTransaction(bookingID, transactionID)
	if err != nil {
		return &InternalError{Op: "attach transaction", Err: err}
	}
	if !modified {
		return &PolicyViolationError{Message: "payment already recorded for this booking"}
	}
	return nil
}

// Refund moves PAID to REFUNDED, permitted only on a cancelled booking.
func (m *LifecycleManager) Refund(ctx context.Context, bookingID string) error {
	b, err := m.Bookings.GetBookingByID(bookingID)
	if err != nil {
		return &InternalError{Op: "refund: fetch booking", Err: err}
	}
	if b == nil {
		return &NotFoundError{Resource: "booking", ID: bookingID}
	}
	if b.BookingStatus != models.BookingCancelled {
		return &PolicyViolationError{Message: "refund requires a cancelled booking"}
	}

	modified, err := m.Bookings.SetPaymentStatus(bookingID, models.PaymentPaid, models.PaymentRefunded)
	if err != nil {
		return &InternalError{Op: "refund: update payment status", Err: err}
	}
	if !modified {
		return &PolicyViolationError{Message: "booking is not in a paid state"}
	}
	return nil
}

// RecordArrival stores the provider's actual arrival time.
func (m *LifecycleManager) RecordArrival(bookingID string, at time.Time) error {
	b, err := m.Bookings.GetBookingByID(bookingID)
	if err != nil {
		return &InternalError{Op: "record arrival: fetch booking", Err: err}
	}
	if b == nil {
		return &NotFoundError{Resource: "booking", ID: bookingID}
	}
	if err := m.Bookings.SetActualArrival(bookingID, at); err != nil {
		return &InternalError{Op: "record arrival", Err: err}
	}
	return nil
}

func (m *LifecycleManager) notify(ctx context.Context, b *models.Booking, event string) {
	if m.Notifier == nil {
		return
	}
	m.Notifier.Dispatch(ctx, models.Notification{
		Target:    b.CustomerID,
		Type:      event,
		Title:     "Booking update",
		Body:      fmt.Sprintf("Your booking is now %s", b.BookingStatus),
		BookingID: b.ID,
	})
}
