package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-StaffBookingService/internal/service/availability"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом
func validateDate(req *Request, clock availability.Clock) error {
	if clock.IsPastDate(req.Date) {
		return fmt.Errorf("%w: date is in the past", ErrInvalidDate)
	}
	return nil
}
