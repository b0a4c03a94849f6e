package notification

import (
	"context"

	"servihub/models"
)

// NotificationService dispatches booking notifications. Dispatch is
// fire-and-forget: failures are logged, never propagated into the booking
// flow that triggered them.
type NotificationService interface {
	Dispatch(ctx context.Context, n models.Notification)
}
