package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"servihub/models"

	"go.uber.org/zap"
)

type cancelEnv struct {
	enforcer  *CancellationEnforcer
	bookings  *memBookingRepo
	schedules *memScheduleRepo
	booking   *models.Booking
	ref       models.SlotRef
}

// newCancelEnv seeds a claimed slot plus its booking, created at a fixed
// instant so tests can steer the enforcer's clock around the window edge.
func newCancelEnv(t *testing.T, createdAt time.Time) *cancelEnv {
	t.Helper()
	schedules := newMemScheduleRepo()
	ref := seedSlot(t, schedules)
	coord := newTestCoordinator(schedules)

	res, err := coord.Reserve(context.Background(), ref, "cust-1")
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	bookings := newMemBookingRepo()
	b := &models.Booking{
		ID:                  "bk-1",
		CustomerID:          "cust-1",
		ProviderID:          "prov-1",
		ScheduleRef:         ref,
		ExpectedArrivalTime: res.ExpectedArrival,
		BookingStatus:       models.BookingPending,
		PaymentStatus:       models.PaymentUnpaid,
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}
	if err := bookings.CreateBooking(context.Background(), b); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	enforcer := NewCancellationEnforcer(bookings, coord, 24*time.Hour, &memNotifier{}, zap.NewNop())
	return &cancelEnv{enforcer: enforcer, bookings: bookings, schedules: schedules, booking: b, ref: ref}
}

func TestCancelInsideWindow(t *testing.T) {
	createdAt := time.Date(2025, 1, 8, 12, 0, 0, 0, time.Local)
	env := newCancelEnv(t, createdAt)
	env.enforcer.now = func() time.Time { return createdAt.Add(23*time.Hour + 59*time.Minute) }

	if err := env.enforcer.Cancel(context.Background(), "bk-1", models.ActorCustomer, "change of plans"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	b, _ := env.bookings.GetBookingByID("bk-1")
	if b.BookingStatus != models.BookingCancelled {
		t.Errorf("bookingStatus = %s, want CANCELLED", b.BookingStatus)
	}
	if b.CancelStatus != models.CancelCancelled {
		t.Errorf("cancelStatus = %s, want CANCELLED", b.CancelStatus)
	}
	if b.CancellationReason != "change of plans" {
		t.Errorf("cancellationReason = %q", b.CancellationReason)
	}

	rec, _ := env.schedules.GetSlotRecord(env.ref)
	if rec.TakenBy != "" {
		t.Errorf("slot still claimed by %q after cancellation", rec.TakenBy)
	}
}

func TestCancelOutsideWindow(t *testing.T) {
	createdAt := time.Date(2025, 1, 8, 12, 0, 0, 0, time.Local)
	env := newCancelEnv(t, createdAt)
	env.enforcer.now = func() time.Time { return createdAt.Add(24*time.Hour + 1*time.Minute) }

	err := env.enforcer.Cancel(context.Background(), "bk-1", models.ActorCustomer, "too late")
	var pv *PolicyViolationError
	if !errors.As(err, &pv) {
		t.Fatalf("Cancel error = %v, want PolicyViolationError", err)
	}

	b, _ := env.bookings.GetBookingByID("bk-1")
	if b.BookingStatus != models.BookingPending {
		t.Errorf("bookingStatus = %s, want PENDING untouched", b.BookingStatus)
	}
	rec, _ := env.schedules.GetSlotRecord(env.ref)
	if rec.TakenBy != "cust-1" {
		t.Errorf("slot claim disturbed by rejected cancel: takenBy=%q", rec.TakenBy)
	}
}

// Providers are not bound by the customer window.
func TestProviderCancelIgnoresWindow(t *testing.T) {
	createdAt := time.Date(2025, 1, 8, 12, 0, 0, 0, time.Local)
	env := newCancelEnv(t, createdAt)
	env.enforcer.now = func() time.Time { return createdAt.Add(72 * time.Hour) }

	if err := env.enforcer.Cancel(context.Background(), "bk-1", models.ActorProvider, "provider unavailable"); err != nil {
		t.Fatalf("provider Cancel: %v", err)
	}
	b, _ := env.bookings.GetBookingByID("bk-1")
	if b.BookingStatus != models.BookingCancelled {
		t.Errorf("bookingStatus = %s, want CANCELLED", b.BookingStatus)
	}
}

func TestDoubleCancelRejected(t *testing.T) {
	createdAt := time.Date(2025, 1, 8, 12, 0, 0, 0, time.Local)
	env := newCancelEnv(t, createdAt)
	env.enforcer.now = func() time.Time { return createdAt.Add(time.Hour) }

	if err := env.enforcer.Cancel(context.Background(), "bk-1", models.ActorCustomer, "first"); err != nil {
		t.Fatalf("first Cancel: %v", err)
	}
	releasesAfterFirst := env.schedules.releaseCalls

	err := env.enforcer.Cancel(context.Background(), "bk-1", models.ActorCustomer, "second")
	var pv *PolicyViolationError
	if !errors.As(err, &pv) {
		t.Fatalf("second Cancel error = %v, want PolicyViolationError", err)
	}
	if env.schedules.releaseCalls != releasesAfterFirst {
		t.Errorf("slot released again on rejected double cancel: %d calls, want %d",
			env.schedules.releaseCalls, releasesAfterFirst)
	}
}

// A cancel that is already staged by another caller is rejected before the
// slot is touched.
func TestCancelWhileAnotherCancelInFlight(t *testing.T) {
	createdAt := time.Date(2025, 1, 8, 12, 0, 0, 0, time.Local)
	env := newCancelEnv(t, createdAt)
	env.enforcer.now = func() time.Time { return createdAt.Add(time.Hour) }

	env.bookings.mu.Lock()
	env.bookings.bookings["bk-1"].CancelStatus = models.CancelInProgress
	env.bookings.mu.Unlock()

	err := env.enforcer.Cancel(context.Background(), "bk-1", models.ActorCustomer, "second caller")
	var pv *PolicyViolationError
	if !errors.As(err, &pv) {
		t.Fatalf("Cancel error = %v, want PolicyViolationError", err)
	}
	if env.schedules.releaseCalls != 0 {
		t.Errorf("slot released by rejected in-flight cancel: %d calls", env.schedules.releaseCalls)
	}
	rec, _ := env.schedules.GetSlotRecord(env.ref)
	if rec.TakenBy != "cust-1" {
		t.Errorf("slot claim disturbed: takenBy=%q", rec.TakenBy)
	}
}

func TestCancelCompletedBooking(t *testing.T) {
	createdAt := time.Date(2025, 1, 8, 12, 0, 0, 0, time.Local)
	env := newCancelEnv(t, createdAt)
	env.enforcer.now = func() time.Time { return createdAt.Add(time.Hour) }

	env.bookings.mu.Lock()
	env.bookings.bookings["bk-1"].BookingStatus = models.BookingCompleted
	env.bookings.mu.Unlock()

	err := env.enforcer.Cancel(context.Background(), "bk-1", models.ActorCustomer, "regret")
	var pv *PolicyViolationError
	if !errors.As(err, &pv) {
		t.Fatalf("Cancel error = %v, want PolicyViolationError", err)
	}
}

func TestCancelUnknownBooking(t *testing.T) {
	env := newCancelEnv(t, time.Now())
	err := env.enforcer.Cancel(context.Background(), "bk-missing", models.ActorCustomer, "")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Cancel error = %v, want NotFoundError", err)
	}
}
