package scheduleRepo

import (
	"context"
	"time"

	"servihub/models"
)

// ScheduleRepository persists provider availability and owns the atomic
// slot-record claim/release primitives. The claim path never does a
// read-then-write round trip; the unclaimed precondition is part of the
// single conditional update.
type ScheduleRepository interface {
	GetSchedule(providerID, month string) (*models.Schedule, error)
	GetScheduleByID(scheduleID string) (*models.Schedule, error)
	CreateSchedule(schedule *models.Schedule) error
	AddDays(scheduleID string, days []models.ScheduleDay) error
	SoftDeleteSchedule(scheduleID string) error
	SetDayActive(scheduleID, dayID string, active bool) error
	SetSlotActive(scheduleID, dayID, slotID string, active bool) error

	InsertSlotRecords(records []models.SlotRecord) error
	GetSlotRecord(ref models.SlotRef) (*models.SlotRecord, error)
	ClaimSlot(ctx context.Context, ref models.SlotRef, customerID string) (*models.SlotRecord, error)
	ReleaseSlot(ctx context.Context, ref models.SlotRef) (bool, error)
	FindStaleClaims(olderThan time.Time) ([]models.SlotRecord, error)
}
