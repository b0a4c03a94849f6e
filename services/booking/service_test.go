package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"servihub/models"

	"go.uber.org/zap"
)

type serviceEnv struct {
	svc       *DefaultBookingService
	schedules *memScheduleRepo
	bookings  *memBookingRepo
	ref       models.SlotRef
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	schedules := newMemScheduleRepo()
	ref := seedSlot(t, schedules)
	bookings := newMemBookingRepo()
	customers := &memCustomerRepo{customers: map[string]*models.Customer{
		"cust-1": {ID: "cust-1"},
		"cust-2": {ID: "cust-2"},
	}}
	logger := zap.NewNop()

	coord := &DefaultReservationCoordinator{Repo: schedules, Logger: logger}
	lifecycle := &LifecycleManager{Bookings: bookings, Customers: customers, Notifier: &memNotifier{}, Logger: logger}
	canceller := NewCancellationEnforcer(bookings, coord, 24*time.Hour, &memNotifier{}, logger)

	svc := &DefaultBookingService{
		Pricing:     &PricingCalculator{Catalog: testCatalog(), TaxRate: 0.18, VisitingFee: 50},
		Coordinator: coord,
		Lifecycle:   lifecycle,
		Canceller:   canceller,
		Bookings:    bookings,
		Logger:      logger,
	}
	return &serviceEnv{svc: svc, schedules: schedules, bookings: bookings, ref: ref}
}

func bookingInput(ref models.SlotRef) models.BookingRequestInput {
	return models.BookingRequestInput{
		ProviderID: "prov-1",
		SlotData:   ref,
		Location:   models.Location{Address: "12 Rose St"},
		ServiceIDs: []models.ServiceSelectionInput{
			{ID: "svc-clean", SelectedIDs: []string{"sub-deep", "sub-win"}},
		},
	}
}

// TestBookingFlow walks the whole contention story on one slot: first
// customer books it, second is turned away, the first cancels, and the
// second can then take it.
func TestBookingFlow(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	b1, err := env.svc.CreateBooking(ctx, "cust-1", bookingInput(env.ref))
	if err != nil {
		t.Fatalf("first CreateBooking: %v", err)
	}
	if b1.BookingStatus != models.BookingPending {
		t.Errorf("bookingStatus = %s, want PENDING", b1.BookingStatus)
	}
	if b1.TotalAmount != 1230 {
		t.Errorf("totalAmount = %v, want 1230", b1.TotalAmount)
	}
	wantArrival := time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local)
	if !b1.ExpectedArrivalTime.Equal(wantArrival) {
		t.Errorf("expectedArrivalTime = %v, want %v", b1.ExpectedArrivalTime, wantArrival)
	}

	_, err = env.svc.CreateBooking(ctx, "cust-2", bookingInput(env.ref))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("second CreateBooking error = %v, want ConflictError", err)
	}

	env.svc.Canceller.now = func() time.Time { return b1.CreatedAt.Add(time.Hour) }
	if err := env.svc.Cancel(ctx, b1.ID, models.ActorCustomer, "changed plans"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	cancelled, err := env.svc.GetBooking(b1.ID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if cancelled.BookingStatus != models.BookingCancelled {
		t.Errorf("bookingStatus = %s, want CANCELLED", cancelled.BookingStatus)
	}

	b2, err := env.svc.CreateBooking(ctx, "cust-2", bookingInput(env.ref))
	if err != nil {
		t.Fatalf("CreateBooking after cancel: %v", err)
	}
	rec, _ := env.schedules.GetSlotRecord(env.ref)
	if rec.TakenBy != "cust-2" {
		t.Errorf("slot takenBy = %q, want cust-2", rec.TakenBy)
	}
	if b2.ID == b1.ID {
		t.Error("rebooking reused the cancelled booking id")
	}
}

func TestCreateBookingTotalMismatch(t *testing.T) {
	env := newServiceEnv(t)

	in := bookingInput(env.ref)
	in.Total = 999
	_, err := env.svc.CreateBooking(context.Background(), "cust-1", in)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("CreateBooking error = %v, want ValidationError", err)
	}

	// The price check runs before the claim; the slot must still be free.
	rec, _ := env.schedules.GetSlotRecord(env.ref)
	if rec.TakenBy != "" {
		t.Errorf("slot claimed despite rejected input: takenBy=%q", rec.TakenBy)
	}
}

func TestCreateBookingAcceptsMatchingTotal(t *testing.T) {
	env := newServiceEnv(t)

	in := bookingInput(env.ref)
	in.Total = 1230
	if _, err := env.svc.CreateBooking(context.Background(), "cust-1", in); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
}

// A failed booking insert must not leave the slot claimed.
func TestCreateBookingReleasesSlotOnInsertFailure(t *testing.T) {
	env := newServiceEnv(t)
	env.bookings.failCreate = true

	_, err := env.svc.CreateBooking(context.Background(), "cust-1", bookingInput(env.ref))
	var ie *InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("CreateBooking error = %v, want InternalError", err)
	}

	rec, _ := env.schedules.GetSlotRecord(env.ref)
	if rec.TakenBy != "" {
		t.Errorf("slot still claimed after failed insert: takenBy=%q", rec.TakenBy)
	}

	env.bookings.failCreate = false
	if _, err := env.svc.CreateBooking(context.Background(), "cust-2", bookingInput(env.ref)); err != nil {
		t.Fatalf("CreateBooking after recovery: %v", err)
	}
}

func TestGetBookingNotFound(t *testing.T) {
	env := newServiceEnv(t)
	_, err := env.svc.GetBooking("bk-missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("GetBooking error = %v, want NotFoundError", err)
	}
}

func TestListProviderBookingsByDate(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	if _, err := env.svc.CreateBooking(ctx, "cust-1", bookingInput(env.ref)); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	got, err := env.svc.ListProviderBookings("prov-1", "2025-01-10")
	if err != nil {
		t.Fatalf("ListProviderBookings: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}

	none, err := env.svc.ListProviderBookings("prov-1", "2025-01-11")
	if err != nil {
		t.Fatalf("ListProviderBookings: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("len = %d for empty date, want 0", len(none))
	}
}
