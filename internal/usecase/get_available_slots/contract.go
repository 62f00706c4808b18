package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/availability"
)

// SlotsBuilder движок доступности слотов
type SlotsBuilder interface {
	BuildSlots(ctx context.Context, serviceID int64, date time.Time) ([]domain.SlotAvailability, error)
	Clock() availability.Clock
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
