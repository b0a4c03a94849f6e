package notification

import (
	"context"
	"encoding/json"

	"servihub/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeBookingNotify is the asynq task type for booking notifications.
const TypeBookingNotify = "notify:booking"

// AsynqNotificationService enqueues notifications for the background worker.
// The delivery transport (push, email, SMS) lives behind the worker and
// outside this service.
type AsynqNotificationService struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqNotificationService(client *asynq.Client, logger *zap.Logger) *AsynqNotificationService {
	return &AsynqNotificationService{Client: client, Logger: logger}
}

// Dispatch enqueues the notification and moves on. Enqueue failures are
// logged only; a lost notification never fails a booking.
func (s *AsynqNotificationService) Dispatch(ctx context.Context, n models.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		s.Logger.Error("failed to marshal notification", zap.Error(err))
		return
	}
	task := asynq.NewTask(TypeBookingNotify, payload)
	if _, err := s.Client.EnqueueContext(ctx, task); err != nil {
		s.Logger.Error("failed to enqueue notification",
			zap.String("type", n.Type),
			zap.String("target", n.Target),
			zap.Error(err))
	}
}
