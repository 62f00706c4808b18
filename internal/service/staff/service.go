package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	staffRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/staff"
)

// DefaultScheduleDays длина расписания сотрудника по умолчанию, начиная с сегодняшнего дня
const DefaultScheduleDays = 7

// ScheduleRequest запрос расписания сотрудника
type ScheduleRequest struct {
	ActorID         int64
	StaffUserID     int64
	StartDate       *time.Time // По умолчанию сегодня
	EndDate         *time.Time // По умолчанию StartDate + DefaultScheduleDays
	IncludeCanceled bool
}

// Service сервис самообслуживания сотрудников
type Service struct {
	staffRepo   StaffRepository
	bookingRepo BookingRepository
	clock       TimeProvider
	logger      Logger
}

// NewService создает новый экземпляр сервиса сотрудников
func NewService(staffRepo StaffRepository, bookingRepo BookingRepository, clock TimeProvider, logger Logger) *Service {
	return &Service{
		staffRepo:   staffRepo,
		bookingRepo: bookingRepo,
		clock:       clock,
		logger:      logger,
	}
}

// GetSchedule возвращает бронирования сотрудника в его бизнесе за период
// Сотрудник видит только свое расписание
func (s *Service) GetSchedule(ctx context.Context, req *ScheduleRequest) ([]*domain.Booking, error) {
	if req.ActorID != req.StaffUserID {
		s.logger.Warn("GetSchedule: user=%d tried to read schedule of staff=%d", req.ActorID, req.StaffUserID)
		return nil, ErrAccessDenied
	}

	profile, err := s.profile(ctx, "GetSchedule", req.StaffUserID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if req.StartDate != nil {
		start = *req.StartDate
	}
	end := start.AddDate(0, 0, DefaultScheduleDays)
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	staffID := profile.StaffUserID
	list, err := s.bookingRepo.GetByBusinessWithFilter(ctx, domain.BusinessBookingsFilter{
		BusinessUserID:  profile.BusinessUserID,
		StartDate:       &start,
		EndDate:         &end,
		StaffUserID:     &staffID,
		IncludeCanceled: req.IncludeCanceled,
	})
	if err != nil {
		s.logger.Error("GetSchedule: repository error for staff=%d: %v", req.StaffUserID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSchedule: fetched %d bookings for staff=%d, period=%s to %s",
		len(list), req.StaffUserID, start.Format(domain.DateFormat), end.Format(domain.DateFormat))
	return list, nil
}

// ToggleActive переключает доступность сотрудника для автоназначения
// Неактивный сотрудник не попадает в кандидаты при подборе
func (s *Service) ToggleActive(ctx context.Context, actorID, staffUserID int64) (*domain.StaffProfile, error) {
	if actorID != staffUserID {
		s.logger.Warn("ToggleActive: user=%d tried to toggle staff=%d", actorID, staffUserID)
		return nil, ErrAccessDenied
	}

	profile, err := s.staffRepo.ToggleActive(ctx, staffUserID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("ToggleActive: repository error for staff=%d: %v", staffUserID, err)
		return nil, fmt.Errorf("%w: ToggleActive - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ToggleActive: staff=%d is_active=%t", staffUserID, profile.IsActive)
	return profile, nil
}

func (s *Service) profile(ctx context.Context, op string, staffUserID int64) (*domain.StaffProfile, error) {
	profile, err := s.staffRepo.GetProfile(ctx, staffUserID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("%s: staff profile %d not found", op, staffUserID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("%s: repository error for staff=%d: %v", op, staffUserID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return profile, nil
}
