package toggle_staff_active

import (
	"context"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
)

type StaffService interface {
	ToggleActive(ctx context.Context, actorID, staffUserID int64) (*domain.StaffProfile, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
