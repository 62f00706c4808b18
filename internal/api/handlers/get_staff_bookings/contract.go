package get_staff_bookings

import (
	"context"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/staff"
)

type StaffService interface {
	GetSchedule(ctx context.Context, req *staff.ScheduleRequest) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
