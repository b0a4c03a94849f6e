package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	scheduleRepo "servihub/database/repository/schedule"
	"servihub/models"
)

// memScheduleRepo is an in-memory ScheduleRepository. Claims take the lock
// for the whole check-and-set, so concurrent Reserve calls behave like the
// storage layer's conditional update: exactly one winner.
type memScheduleRepo struct {
	mu           sync.Mutex
	schedules    map[string]*models.Schedule
	slots        map[string]*models.SlotRecord
	releaseCalls int
}

func newMemScheduleRepo() *memScheduleRepo {
	return &memScheduleRepo{
		schedules: make(map[string]*models.Schedule),
		slots:     make(map[string]*models.SlotRecord),
	}
}

func slotKey(scheduleID, dayID, slotID string) string {
	return scheduleID + "/" + dayID + "/" + slotID
}

func (r *memScheduleRepo) GetSchedule(providerID, month string) (*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.schedules {
		if s.ProviderID == providerID && s.Month == month && !s.Deleted {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memScheduleRepo) GetScheduleByID(scheduleID string) (*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[scheduleID]
	if !ok || s.Deleted {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memScheduleRepo) CreateSchedule(schedule *models.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *schedule
	r.schedules[schedule.ID] = &cp
	return nil
}

func (r *memScheduleRepo) AddDays(scheduleID string, days []models.ScheduleDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[scheduleID]
	if !ok {
		return errors.New("schedule not found")
	}
	s.Days = append(s.Days, days...)
	return nil
}

func (r *memScheduleRepo) SoftDeleteSchedule(scheduleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[scheduleID]
	if !ok {
		return errors.New("schedule not found")
	}
	s.Deleted = true
	return nil
}

func (r *memScheduleRepo) SetDayActive(scheduleID, dayID string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.slots {
		if rec.ScheduleID == scheduleID && rec.DayID == dayID {
			rec.IsActive = active
		}
	}
	return nil
}

func (r *memScheduleRepo) SetSlotActive(scheduleID, dayID, slotID string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.slots[slotKey(scheduleID, dayID, slotID)]; ok {
		rec.IsActive = active
	}
	return nil
}

func (r *memScheduleRepo) InsertSlotRecords(records []models.SlotRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range records {
		cp := records[i]
		r.slots[slotKey(cp.ScheduleID, cp.DayID, cp.SlotID)] = &cp
	}
	return nil
}

func (r *memScheduleRepo) GetSlotRecord(ref models.SlotRef) (*models.SlotRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.slots[slotKey(ref.ScheduleID, ref.DayID, ref.SlotID)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *memScheduleRepo) ClaimSlot(ctx context.Context, ref models.SlotRef, customerID string) (*models.SlotRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.slots[slotKey(ref.ScheduleID, ref.DayID, ref.SlotID)]
	if !ok || rec.Month != ref.Month || !rec.IsActive || rec.TakenBy != "" {
		return nil, scheduleRepo.ErrSlotTaken
	}
	now := time.Now()
	rec.TakenBy = customerID
	rec.TakenAt = &now
	cp := *rec
	return &cp, nil
}

func (r *memScheduleRepo) ReleaseSlot(ctx context.Context, ref models.SlotRef) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseCalls++
	rec, ok := r.slots[slotKey(ref.ScheduleID, ref.DayID, ref.SlotID)]
	if !ok {
		return false, nil
	}
	rec.TakenBy = ""
	rec.TakenAt = nil
	return true, nil
}

func (r *memScheduleRepo) FindStaleClaims(olderThan time.Time) ([]models.SlotRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SlotRecord
	for _, rec := range r.slots {
		if rec.TakenBy != "" && rec.TakenAt != nil && rec.TakenAt.Before(olderThan) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

// memBookingRepo is an in-memory BookingRepository. failCreate simulates a
// persistence failure after a successful claim.
type memBookingRepo struct {
	mu         sync.Mutex
	bookings   map[string]*models.Booking
	failCreate bool
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *memBookingRepo) CreateBooking(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("simulated insert failure")
	}
	cp := *booking
	r.bookings[booking.ID] = &cp
	return nil
}

func (r *memBookingRepo) GetBookingByID(bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) UpdateStatus(bookingID string, from, to models.BookingStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.BookingStatus != from {
		return false, nil
	}
	b.BookingStatus = to
	b.UpdatedAt = time.Now()
	return true, nil
}

func (r *memBookingRepo) BeginCancel(bookingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.BookingStatus == models.BookingCancelled ||
		b.CancelStatus == models.CancelInProgress || b.CancelStatus == models.CancelCancelled {
		return false, nil
	}
	b.CancelStatus = models.CancelInProgress
	b.UpdatedAt = time.Now()
	return true, nil
}

func (r *memBookingRepo) MarkCancelled(bookingID, reason string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.BookingStatus == models.BookingCancelled {
		return false, nil
	}
	b.BookingStatus = models.BookingCancelled
	b.CancelStatus = models.CancelCancelled
	b.CancellationReason = reason
	b.CancelledAt = &at
	b.UpdatedAt = at
	return true, nil
}

func (r *memBookingRepo) AttachTransaction(bookingID, transactionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.PaymentStatus != models.PaymentUnpaid {
		return false, nil
	}
	b.TransactionID = transactionID
	b.PaymentStatus = models.PaymentPaid
	return true, nil
}

func (r *memBookingRepo) SetPaymentStatus(bookingID string, from, to models.PaymentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.PaymentStatus != from {
		return false, nil
	}
	b.PaymentStatus = to
	return true, nil
}

func (r *memBookingRepo) SetActualArrival(bookingID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[bookingID]; ok {
		b.ActualArrivalTime = &at
	}
	return nil
}

func (r *memBookingRepo) ListByCustomer(customerID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListByProviderDate(providerID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.ExpectedArrivalTime.Format("2006-01-02") == date {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) HasLiveBookingForSlot(ref models.SlotRef) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ScheduleRef == ref && b.BookingStatus != models.BookingCancelled {
			return true, nil
		}
	}
	return false, nil
}

// memCatalogRepo is an in-memory CatalogRepository.
type memCatalogRepo struct {
	services map[string]models.Service
}

func (r *memCatalogRepo) GetServiceByID(serviceID string) (*models.Service, error) {
	svc, ok := r.services[serviceID]
	if !ok {
		return nil, nil
	}
	return &svc, nil
}

func (r *memCatalogRepo) ListServices() ([]models.Service, error) {
	var out []models.Service
	for _, svc := range r.services {
		out = append(out, svc)
	}
	return out, nil
}

// memCustomerRepo is an in-memory CustomerRepository.
type memCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*models.Customer
}

func (r *memCustomerRepo) GetCustomerByID(customerID string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[customerID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomerRepo) SetPendingReview(customerID string, pending bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.customers[customerID]; ok {
		c.HasPendingReview = pending
	}
	return nil
}

// memNotifier records dispatched notifications.
type memNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (n *memNotifier) Dispatch(ctx context.Context, notif models.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notif)
}
