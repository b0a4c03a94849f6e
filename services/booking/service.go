package booking

import (
	"context"
	"math"
	"time"

	bookingRepo "servihub/database/repository/booking"
	"servihub/models"

	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService by composing the pricing
// calculator, the reservation coordinator, the lifecycle manager, and the
// cancellation enforcer.
type DefaultBookingService struct {
	Pricing     *PricingCalculator
	Coordinator ReservationCoordinator
	Lifecycle   *LifecycleManager
	Canceller   *CancellationEnforcer
	Bookings    bookingRepo.BookingRepository
	Logger      *zap.Logger
}

// PriceBreakup computes the breakdown for a selection without touching any
// schedule or booking state.
func (s *DefaultBookingService) PriceBreakup(selections []models.ServiceSelection) (*models.PriceBreakup, error) {
	return s.Pricing.ComputeBreakup(selections)
}

// CreateBooking runs the full flow: price the selection, claim the slot,
// persist the booking. The claim and the booking insert are two separate
// writes to different collections; when the insert fails the claimed slot
// is released as a compensating action, and if even that fails the slot is
// left for the reconciliation sweep and the failure is logged at error
// level for operators.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, customerID string, in models.BookingRequestInput) (*models.Booking, error) {
	selections := in.Selections()

	breakup, err := s.Pricing.ComputeBreakup(selections)
	if err != nil {
		return nil, err
	}
	if in.Total != 0 && math.Abs(in.Total-breakup.Total) > 0.01 {
		return nil, &ValidationError{Message: "submitted total does not match the computed price"}
	}

	reservation, err := s.Coordinator.Reserve(ctx, in.SlotData, customerID)
	if err != nil {
		return nil, err
	}

	b, err := s.Lifecycle.CreateBooking(ctx, customerID, reservation, selections, in.Location, breakup.Total, in.TransactionID)
	if err != nil {
		if relErr := s.Coordinator.Release(ctx, in.SlotData); relErr != nil {
			s.Logger.Error("orphaned slot claim: booking insert and compensating release both failed",
				zap.String("scheduleId", in.SlotData.ScheduleID),
				zap.String("slotId", in.SlotData.SlotID),
				zap.String("customerId", customerID),
				zap.NamedError("createErr", err),
				zap.NamedError("releaseErr", relErr))
		}
		return nil, err
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", b.ID),
		zap.String("customerId", customerID),
		zap.String("providerId", b.ProviderID),
		zap.Float64("total", b.TotalAmount))
	return b, nil
}

// GetBooking fetches one booking.
func (s *DefaultBookingService) GetBooking(bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetBookingByID(bookingID)
	if err != nil {
		return nil, &InternalError{Op: "get booking", Err: err}
	}
	if b == nil {
		return nil, &NotFoundError{Resource: "booking", ID: bookingID}
	}
	return b, nil
}

// ListCustomerBookings returns a customer's booking history.
func (s *DefaultBookingService) ListCustomerBookings(customerID string) ([]models.Booking, error) {
	bookings, err := s.Bookings.ListByCustomer(customerID)
	if err != nil {
		return nil, &InternalError{Op: "list customer bookings", Err: err}
	}
	return bookings, nil
}

// ListProviderBookings returns a provider's bookings for one date.
func (s *DefaultBookingService) ListProviderBookings(providerID, date string) ([]models.Booking, error) {
	bookings, err := s.Bookings.ListByProviderDate(providerID, date)
	if err != nil {
		return nil, &InternalError{Op: "list provider bookings", Err: err}
	}
	return bookings, nil
}

// Transition delegates to the lifecycle manager.
func (s *DefaultBookingService) Transition(ctx context.Context, bookingID string, target models.BookingStatus) (*models.Booking, error) {
	return s.Lifecycle.Transition(ctx, bookingID, target)
}

// AttachTransaction delegates to the lifecycle manager.
func (s *DefaultBookingService) AttachTransaction(ctx context.Context, bookingID, transactionID string) error {
	return s.Lifecycle.AttachTransaction(ctx, bookingID, transactionID)
}

// Refund delegates to the lifecycle manager.
func (s *DefaultBookingService) Refund(ctx context.Context, bookingID string) error {
	return s.Lifecycle.Refund(ctx, bookingID)
}

// RecordArrival delegates to the lifecycle manager.
func (s *DefaultBookingService) RecordArrival(bookingID string, at time.Time) error {
	return s.Lifecycle.RecordArrival(bookingID, at)
}

// Cancel delegates to the cancellation enforcer.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID string, actor models.CancelActor, reason string) error {
	return s.Canceller.Cancel(ctx, bookingID, actor, reason)
}
