package staff

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
)

// StaffRepository интерфейс репозитория профилей сотрудников
type StaffRepository interface {
	GetProfile(ctx context.Context, staffUserID int64) (*domain.StaffProfile, error)
	ToggleActive(ctx context.Context, staffUserID int64) (*domain.StaffProfile, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error)
}

// TimeProvider интерфейс для получения текущего времени в часовом поясе бизнеса
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
