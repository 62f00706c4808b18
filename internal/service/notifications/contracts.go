package notifications

import (
	"context"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
)

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) error
}

// EventPublisher публикует события во внешнюю шину (может отсутствовать)
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v interface{}) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
