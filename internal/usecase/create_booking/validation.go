package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/availability"
	"github.com/m04kA/SMC-StaffBookingService/pkg/ptr"
	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса и нормализует строки
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.CustomerName == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len([]rune(req.CustomerName)) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName must be at most %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	req.Phone = strings.TrimSpace(req.Phone)
	if req.Phone == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}
	if len([]rune(req.Phone)) > domain.MaxPhoneLength {
		return fmt.Errorf("%w: phone must be at most %d characters", ErrInvalidInput, domain.MaxPhoneLength)
	}

	if req.Note != nil {
		note := strings.TrimSpace(*req.Note)
		if len([]rune(note)) > domain.MaxNoteLength {
			return fmt.Errorf("%w: note must be at most %d characters", ErrInvalidInput, domain.MaxNoteLength)
		}
		if note == "" {
			req.Note = nil
		} else {
			req.Note = ptr.Ptr(note)
		}
	}

	return nil
}

// parseStartTime разбирает время начала в формате HH:MM
func parseStartTime(raw string) (types.TimeString, error) {
	start, err := types.NewTimeStringFromString(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: invalid time %q: %v", ErrInvalidInput, raw, err)
	}
	return start, nil
}

// validateService проверяет, что услуга доступна для записи
func validateService(service *domain.Service) error {
	if !service.IsActive {
		return ErrServiceInactive
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

// validateBookingTime проверяет, что время стоит в сетке бизнеса и сегодня еще не прошло
func validateBookingTime(req *Request, start types.TimeString, grid []types.TimeString, clock availability.Clock) error {
	if !availability.IsOnGrid(grid, start) {
		return fmt.Errorf("%w: %s is not on the business grid", ErrInvalidTimeSlot, start)
	}

	if clock.IsToday(req.Date) && start.Minutes() < clock.CurrentMinute().Minutes() {
		return fmt.Errorf("%w: %s has already passed", ErrTooLateToBook, start)
	}

	return nil
}
