package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	scheduleRepo "servihub/database/repository/schedule"
	"servihub/models"
	"servihub/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Reservation is the outcome of a successful claim: the claimed slot record
// plus the derived arrival time, everything the caller needs to build the
// booking.
type Reservation struct {
	Slot            models.SlotRecord
	ExpectedArrival time.Time
}

// ReservationCoordinator turns the slot-record conditional update into an
// all-or-nothing reservation primitive: at most one claim wins per slot.
type ReservationCoordinator interface {
	Reserve(ctx context.Context, ref models.SlotRef, customerID string) (*Reservation, error)
	Release(ctx context.Context, ref models.SlotRef) error
}

// DefaultReservationCoordinator implements ReservationCoordinator over the
// schedule repository. CacheClient may be nil; it only serves month-view
// invalidation.
type DefaultReservationCoordinator struct {
	Repo        scheduleRepo.ScheduleRepository
	CacheClient *redis.Client
	Logger      *zap.Logger
}

// Reserve verifies the schedule exists, then issues the one conditional
// update that sets the slot's claim. Two concurrent calls on the same slot
// contend at the storage layer; the loser observes no match and gets a
// ConflictError, not a timeout.
func (c *DefaultReservationCoordinator) Reserve(ctx context.Context, ref models.SlotRef, customerID string) (*Reservation, error) {
	schedule, err := c.Repo.GetScheduleByID(ref.ScheduleID)
	if err != nil {
		return nil, &InternalError{Op: "reserve: fetch schedule", Err: err}
	}
	if schedule == nil || schedule.Month != ref.Month {
		return nil, &NotFoundError{Resource: "schedule", ID: ref.ScheduleID}
	}

	claimed, err := c.Repo.ClaimSlot(ctx, ref, customerID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSlotTaken) {
			return nil, &ConflictError{Message: "slot already taken"}
		}
		return nil, &InternalError{Op: "reserve: claim slot", Err: err}
	}

	arrival, err := arrivalTime(claimed.Date, claimed.From)
	if err != nil {
		// The claim stands; a malformed stored time must not double-book.
		return nil, &InternalError{Op: "reserve: derive arrival time", Err: err}
	}

	c.invalidateMonthView(ctx, claimed.ProviderID, claimed.Month)
	if c.Logger != nil {
		c.Logger.Info("slot reserved",
			zap.String("scheduleId", ref.ScheduleID),
			zap.String("slotId", ref.SlotID),
			zap.String("customerId", customerID))
	}

	return &Reservation{Slot: *claimed, ExpectedArrival: arrival}, nil
}

// Release clears a slot's claim once cancellation policy has authorized it.
// Releasing an already-free slot is a no-op success; a missing slot record
// is a NotFoundError.
func (c *DefaultReservationCoordinator) Release(ctx context.Context, ref models.SlotRef) error {
	rec, err := c.Repo.GetSlotRecord(ref)
	if err != nil {
		return &InternalError{Op: "release: fetch slot record", Err: err}
	}
	if rec == nil {
		return &NotFoundError{Resource: "slot", ID: ref.SlotID}
	}

	if _, err := c.Repo.ReleaseSlot(ctx, ref); err != nil {
		return &InternalError{Op: "release: clear claim", Err: err}
	}

	c.invalidateMonthView(ctx, rec.ProviderID, rec.Month)
	return nil
}

func (c *DefaultReservationCoordinator) invalidateMonthView(ctx context.Context, providerID, month string) {
	if c.CacheClient == nil {
		return
	}
	key := utils.ScheduleCacheKey(providerID, month)
	if err := c.CacheClient.Del(ctx, key).Err(); err != nil && c.Logger != nil {
		c.Logger.Warn("failed to invalidate schedule cache", zap.String("key", key), zap.Error(err))
	}
}

// arrivalTime combines a day's date with a slot's start time.
func arrivalTime(date, from string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+from, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot time %q %q: %w", date, from, err)
	}
	return t, nil
}
