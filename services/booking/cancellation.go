package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "servihub/database/repository/booking"
	"servihub/models"
	"servihub/services/notification"

	"go.uber.org/zap"
)

// CancellationEnforcer validates and executes cancellation requests and
// releases the claimed slot. The window applies to customer-initiated
// cancels only; providers may cancel at any time before completion.
type CancellationEnforcer struct {
	Bookings    bookingRepo.BookingRepository
	Coordinator ReservationCoordinator
	Window      time.Duration
	Notifier    notification.NotificationService
	Logger      *zap.Logger

	// now is swappable in tests.
	now func() time.Time
}

func NewCancellationEnforcer(
	bookings bookingRepo.BookingRepository,
	coordinator ReservationCoordinator,
	window time.Duration,
	notifier notification.NotificationService,
	logger *zap.Logger,
) *CancellationEnforcer {
	return &CancellationEnforcer{
		Bookings:    bookings,
		Coordinator: coordinator,
		Window:      window,
		Notifier:    notifier,
		Logger:      logger,
		now:         time.Now,
	}
}

// Cancel enforces the policy, stages the cancellation, finalizes the booking
// status through a guarded update, then releases the slot. A cancel on an
// already-cancelled or in-flight booking is rejected, not silently accepted,
// and the slot is not touched again.
func (e *CancellationEnforcer) Cancel(ctx context.Context, bookingID string, actor models.CancelActor, reason string) error {
	b, err := e.Bookings.GetBookingByID(bookingID)
	if err != nil {
		return &InternalError{Op: "cancel: fetch booking", Err: err}
	}
	if b == nil {
		return &NotFoundError{Resource: "booking", ID: bookingID}
	}

	if b.BookingStatus == models.BookingCancelled {
		return &PolicyViolationError{Message: "booking is already cancelled"}
	}
	if !b.BookingStatus.CanTransitionTo(models.BookingCancelled) {
		return &PolicyViolationError{
			Message: fmt.Sprintf("cannot cancel a %s booking", b.BookingStatus),
		}
	}
	if actor == models.ActorCustomer {
		if age := e.now().Sub(b.CreatedAt); age > e.Window {
			return &PolicyViolationError{
				Message: fmt.Sprintf("cancellation window of %s has passed", e.Window),
			}
		}
	}

	// Staging settles a race between two simultaneous cancel calls before
	// the slot is touched: exactly one caller stages, the other is rejected
	// here without ever reaching the release below.
	staged, err := e.Bookings.BeginCancel(bookingID)
	if err != nil {
		return &InternalError{Op: "cancel: stage cancellation", Err: err}
	}
	if !staged {
		return &PolicyViolationError{Message: "cancellation already in progress"}
	}

	modified, err := e.Bookings.MarkCancelled(bookingID, reason, e.now())
	if err != nil {
		return &InternalError{Op: "cancel: mark cancelled", Err: err}
	}
	if !modified {
		return &PolicyViolationError{Message: "booking is already cancelled"}
	}

	if err := e.Coordinator.Release(ctx, b.ScheduleRef); err != nil {
		// The booking is cancelled but the slot still looks claimed; the
		// reconciliation sweep will release it. Operators need to see this.
		e.Logger.Error("slot release failed after cancellation",
			zap.String("bookingId", bookingID),
			zap.String("slotId", b.ScheduleRef.SlotID),
			zap.Error(err))
		return &InternalError{Op: "cancel: release slot", Err: err}
	}

	if e.Notifier != nil {
		e.Notifier.Dispatch(ctx, models.Notification{
			Target:    b.ProviderID,
			Type:      "booking_cancelled",
			Title:     "Booking cancelled",
			Body:      fmt.Sprintf("Booking for %s was cancelled: %s", b.ExpectedArrivalTime.Format("2006-01-02 15:04"), reason),
			BookingID: b.ID,
		})
	}
	return nil
}
