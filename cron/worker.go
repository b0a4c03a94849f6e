package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"servihub/config"
	bookingRepo "servihub/database/repository/booking"
	scheduleRepo "servihub/database/repository/schedule"
	"servihub/models"
	"servihub/services/booking"
	"servihub/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeReconcileOrphans is the asynq task type for the orphaned-claim sweep.
const TypeReconcileOrphans = "reconcile:orphans"

// WorkerDeps carries everything the background worker needs.
type WorkerDeps struct {
	Schedules   scheduleRepo.ScheduleRepository
	Bookings    bookingRepo.BookingRepository
	Coordinator booking.ReservationCoordinator
	Logger      *zap.Logger
}

// InitWorker runs the asynq worker in the background: notification delivery
// plus the periodic reconciliation sweep that releases claimed slots with no
// live booking (the claim and the booking insert are separate writes, so a
// crash between them can strand a claim).
func InitWorker(deps WorkerDeps) *asynq.Client {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeBookingNotify, handleNotifyTask(deps.Logger))
	mux.HandleFunc(TypeReconcileOrphans, handleReconcileTask(deps))

	go func() {
		log.Println("[Worker] Starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] failed to start worker: %v", err)
		}
	}()

	client := asynq.NewClient(redisOpts)
	go scheduleReconciliation(client, deps.Logger)
	return client
}

// scheduleReconciliation enqueues the sweep on a fixed interval.
func scheduleReconciliation(client *asynq.Client, logger *zap.Logger) {
	interval := time.Duration(config.AppConfig.OrphanSweepAfter) * time.Minute
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := client.Enqueue(asynq.NewTask(TypeReconcileOrphans, nil)); err != nil {
			logger.Error("failed to enqueue reconciliation sweep", zap.Error(err))
		}
	}
}

func handleNotifyTask(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var n models.Notification
		if err := json.Unmarshal(task.Payload(), &n); err != nil {
			logger.Error("invalid notification payload", zap.Error(err))
			return err
		}
		// Delivery transport (push/email/SMS) is handled downstream; here we
		// record the dispatch so the pipeline is observable end to end.
		logger.Info("notification dispatched",
			zap.String("target", n.Target),
			zap.String("type", n.Type),
			zap.String("bookingId", n.BookingID))
		return nil
	}
}

// handleReconcileTask releases claims that have no live booking behind them.
// A claim is only touched when it is older than the configured age, so an
// in-flight create (claim done, insert pending) is never swept.
func handleReconcileTask(deps WorkerDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		cutoff := time.Now().Add(-time.Duration(config.AppConfig.OrphanSweepAfter) * time.Minute)
		stale, err := deps.Schedules.FindStaleClaims(cutoff)
		if err != nil {
			deps.Logger.Error("reconciliation: failed to list stale claims", zap.Error(err))
			return err
		}

		released := 0
		for _, rec := range stale {
			ref := models.SlotRef{
				ScheduleID: rec.ScheduleID,
				Month:      rec.Month,
				DayID:      rec.DayID,
				SlotID:     rec.SlotID,
			}
			live, err := deps.Bookings.HasLiveBookingForSlot(ref)
			if err != nil {
				deps.Logger.Error("reconciliation: live-booking check failed",
					zap.String("slotId", rec.SlotID), zap.Error(err))
				continue
			}
			if live {
				continue
			}

			deps.Logger.Error("reconciliation: orphaned slot claim detected, releasing",
				zap.String("scheduleId", rec.ScheduleID),
				zap.String("dayId", rec.DayID),
				zap.String("slotId", rec.SlotID),
				zap.String("takenBy", rec.TakenBy))
			if err := deps.Coordinator.Release(ctx, ref); err != nil {
				deps.Logger.Error("reconciliation: release failed",
					zap.String("slotId", rec.SlotID), zap.Error(err))
				continue
			}
			released++
		}

		if released > 0 {
			deps.Logger.Info("reconciliation sweep complete", zap.Int("released", released))
		}
		return nil
	}
}
