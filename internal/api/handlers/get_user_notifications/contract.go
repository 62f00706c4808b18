package get_user_notifications

import (
	"context"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
)

type NotificationService interface {
	ListForUser(ctx context.Context, actorID, userID int64, unreadOnly bool, limit int) ([]*domain.Notification, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
