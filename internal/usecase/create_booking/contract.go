package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/availability"
	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, serviceID int64) (*domain.Service, error)
}

// StaffPicker движок доступности: сетка бизнеса и выбор сотрудника
type StaffPicker interface {
	Grid(ctx context.Context, businessUserID int64) ([]types.TimeString, domain.BusinessSlotConfig, error)
	PickStaff(
		ctx context.Context,
		businessUserID int64,
		serviceID int64,
		date time.Time,
		start types.TimeString,
		durationMinutes int,
	) (int64, bool, error)
	Clock() availability.Clock
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier доставляет уведомления после коммита
type Notifier interface {
	Notify(ctx context.Context, list ...*domain.Notification)
}

// Metrics счетчик исходов назначения сотрудника
type Metrics interface {
	IncBookingAssignment(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
