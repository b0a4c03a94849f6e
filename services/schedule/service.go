package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	scheduleRepo "servihub/database/repository/schedule"
	"servihub/models"
	"servihub/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleService manages provider availability: month submissions, day and
// slot toggles, and the cached month view customers browse.
type ScheduleService interface {
	SubmitAvailability(providerID string, in models.SubmitScheduleInput) (*models.Schedule, error)
	GetMonth(providerID, month string) (*models.Schedule, error)
	SetDayActive(scheduleID, dayID string, active bool) error
	SetSlotActive(scheduleID, dayID, slotID string, active bool) error
	DeleteSchedule(scheduleID string) error
}

// DefaultScheduleService implements ScheduleService.
type DefaultScheduleService struct {
	Repo        scheduleRepo.ScheduleRepository
	CacheClient *redis.Client
	Logger      *zap.Logger
}

// SubmitAvailability creates the provider's schedule for the month on first
// submission, or appends days to it, and materializes one claimable slot
// record per submitted slot.
func (s *DefaultScheduleService) SubmitAvailability(providerID string, in models.SubmitScheduleInput) (*models.Schedule, error) {
	if err := validateSubmission(in); err != nil {
		return nil, err
	}

	days := make([]models.ScheduleDay, 0, len(in.Days))
	for _, d := range in.Days {
		day := models.ScheduleDay{
			ID:       uuid.New().String(),
			Date:     d.Date,
			IsActive: true,
			Slots:    make([]models.Slot, 0, len(d.Slots)),
		}
		for _, sl := range d.Slots {
			day.Slots = append(day.Slots, models.Slot{
				ID:       uuid.New().String(),
				From:     sl.From,
				To:       sl.To,
				IsActive: true,
			})
		}
		days = append(days, day)
	}

	existing, err := s.Repo.GetSchedule(providerID, in.Month)
	if err != nil {
		return nil, fmt.Errorf("failed to look up schedule: %w", err)
	}

	var schedule *models.Schedule
	if existing == nil {
		now := time.Now()
		schedule = &models.Schedule{
			ID:         uuid.New().String(),
			ProviderID: providerID,
			Month:      in.Month,
			Days:       days,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.Repo.CreateSchedule(schedule); err != nil {
			return nil, fmt.Errorf("failed to create schedule: %w", err)
		}
	} else {
		if err := s.Repo.AddDays(existing.ID, days); err != nil {
			return nil, fmt.Errorf("failed to extend schedule: %w", err)
		}
		existing.Days = append(existing.Days, days...)
		schedule = existing
	}

	records := make([]models.SlotRecord, 0)
	for _, day := range days {
		for _, slot := range day.Slots {
			records = append(records, models.SlotRecord{
				ScheduleID: schedule.ID,
				ProviderID: providerID,
				Month:      in.Month,
				DayID:      day.ID,
				SlotID:     slot.ID,
				Date:       day.Date,
				From:       slot.From,
				To:         slot.To,
				IsActive:   true,
			})
		}
	}
	if err := s.Repo.InsertSlotRecords(records); err != nil {
		return nil, fmt.Errorf("failed to materialize slot records: %w", err)
	}

	s.invalidate(providerID, in.Month)
	s.Logger.Info("availability submitted",
		zap.String("providerId", providerID),
		zap.String("month", in.Month),
		zap.Int("days", len(days)),
		zap.Int("slots", len(records)))
	return schedule, nil
}

// GetMonth returns the provider's month view, served from cache when fresh.
func (s *DefaultScheduleService) GetMonth(providerID, month string) (*models.Schedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := utils.ScheduleCacheKey(providerID, month)
	if s.CacheClient != nil {
		if data, err := s.CacheClient.Get(ctx, key).Result(); err == nil {
			var cached models.Schedule
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	schedule, err := s.Repo.GetSchedule(providerID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	if schedule == nil {
		return nil, &NotFoundError{Resource: "schedule", ID: providerID + "/" + month}
	}

	if s.CacheClient != nil {
		if data, err := json.Marshal(schedule); err == nil {
			if err := s.CacheClient.Set(ctx, key, data, utils.ScheduleCacheTTL).Err(); err != nil {
				s.Logger.Warn("failed to cache schedule", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return schedule, nil
}

// SetDayActive toggles a day and its slots.
func (s *DefaultScheduleService) SetDayActive(scheduleID, dayID string, active bool) error {
	schedule, err := s.Repo.GetScheduleByID(scheduleID)
	if err != nil {
		return fmt.Errorf("failed to fetch schedule: %w", err)
	}
	if schedule == nil {
		return &NotFoundError{Resource: "schedule", ID: scheduleID}
	}
	if err := s.Repo.SetDayActive(scheduleID, dayID, active); err != nil {
		return fmt.Errorf("failed to toggle day: %w", err)
	}
	s.invalidate(schedule.ProviderID, schedule.Month)
	return nil
}

// SetSlotActive toggles one slot.
func (s *DefaultScheduleService) SetSlotActive(scheduleID, dayID, slotID string, active bool) error {
	schedule, err := s.Repo.GetScheduleByID(scheduleID)
	if err != nil {
		return fmt.Errorf("failed to fetch schedule: %w", err)
	}
	if schedule == nil {
		return &NotFoundError{Resource: "schedule", ID: scheduleID}
	}
	if err := s.Repo.SetSlotActive(scheduleID, dayID, slotID, active); err != nil {
		return fmt.Errorf("failed to toggle slot: %w", err)
	}
	s.invalidate(schedule.ProviderID, schedule.Month)
	return nil
}

// DeleteSchedule soft-flags a schedule; nothing is physically removed.
func (s *DefaultScheduleService) DeleteSchedule(scheduleID string) error {
	schedule, err := s.Repo.GetScheduleByID(scheduleID)
	if err != nil {
		return fmt.Errorf("failed to fetch schedule: %w", err)
	}
	if schedule == nil {
		return &NotFoundError{Resource: "schedule", ID: scheduleID}
	}
	if err := s.Repo.SoftDeleteSchedule(scheduleID); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	s.invalidate(schedule.ProviderID, schedule.Month)
	return nil
}

func (s *DefaultScheduleService) invalidate(providerID, month string) {
	if s.CacheClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	key := utils.ScheduleCacheKey(providerID, month)
	if err := s.CacheClient.Del(ctx, key).Err(); err != nil {
		s.Logger.Warn("failed to invalidate schedule cache", zap.String("key", key), zap.Error(err))
	}
}

func validateSubmission(in models.SubmitScheduleInput) error {
	if _, err := time.Parse("2006-01", in.Month); err != nil {
		return &ValidationError{Message: fmt.Sprintf("invalid month %q, want YYYY-MM", in.Month)}
	}
	if len(in.Days) == 0 {
		return &ValidationError{Message: "submission contains no days"}
	}
	for _, d := range in.Days {
		if _, err := time.Parse("2006-01-02", d.Date); err != nil {
			return &ValidationError{Message: fmt.Sprintf("invalid date %q, want YYYY-MM-DD", d.Date)}
		}
		if !strings.HasPrefix(d.Date, in.Month+"-") {
			return &ValidationError{Message: fmt.Sprintf("date %s is outside month %s", d.Date, in.Month)}
		}
		if len(d.Slots) == 0 {
			return &ValidationError{Message: fmt.Sprintf("day %s contains no slots", d.Date)}
		}
		for _, sl := range d.Slots {
			from, err := time.Parse("15:04", sl.From)
			if err != nil {
				return &ValidationError{Message: fmt.Sprintf("invalid time %q, want HH:MM", sl.From)}
			}
			to, err := time.Parse("15:04", sl.To)
			if err != nil {
				return &ValidationError{Message: fmt.Sprintf("invalid time %q, want HH:MM", sl.To)}
			}
			if !from.Before(to) {
				return &ValidationError{Message: fmt.Sprintf("slot %s-%s ends before it starts", sl.From, sl.To)}
			}
		}
	}
	return nil
}
