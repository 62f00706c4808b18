package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

// BuildSlots строит доступность всех слотов сетки бизнеса на дату
//
// capacity одинаков для всех слотов и равен числу подходящих сотрудников,
// remaining = capacity - число занятых из них. Прошедшие слоты сегодняшнего дня
// всегда remaining = 0 и isBooked = true. Отсутствующая или неактивная услуга
// дает полностью занятую сетку по умолчанию.
func (s *Service) BuildSlots(ctx context.Context, serviceID int64, date time.Time) ([]domain.SlotAvailability, error) {
	service, err := s.resolveService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if service == nil {
		s.logger.Warn("BuildSlots: service id=%d not found or inactive, returning fully booked grid", serviceID)
		cfg := domain.DefaultBusinessSlotConfig(0)
		return s.annotate(gridFor(cfg), date, 0, nil), nil
	}

	cfg, err := s.slotConfig(ctx, service.BusinessUserID)
	if err != nil {
		return nil, err
	}
	grid := gridFor(cfg)

	eligible, err := s.EligibleStaff(ctx, service.BusinessUserID, serviceID)
	if err != nil {
		return nil, err
	}

	if len(eligible) == 0 {
		s.logger.Warn("BuildSlots: no eligible staff for service id=%d business=%d", serviceID, service.BusinessUserID)
		return s.annotate(grid, date, 0, nil), nil
	}

	bookings, err := s.bookingRepo.ListStaffBookings(ctx, date, eligible)
	if err != nil {
		return nil, fmt.Errorf("%w: list staff bookings: %w", ErrInternal, err)
	}

	duration := domain.EffectiveDuration(service.DurationMinutes, cfg.StepMinutes)
	busyFor := func(slot types.TimeString) int {
		return len(busyFrom(bookings, domain.NewInterval(slot, duration), eligible, cfg.StepMinutes))
	}

	return s.annotate(grid, date, len(eligible), busyFor), nil
}

// annotate заполняет capacity/remaining/isPast/isBooked; busyFor == nil означает, что занятых нет
func (s *Service) annotate(
	grid []types.TimeString,
	date time.Time,
	capacity int,
	busyFor func(slot types.TimeString) int,
) []domain.SlotAvailability {
	today := s.clock.IsToday(date)
	nowMinute := s.clock.CurrentMinute().Minutes()

	slots := make([]domain.SlotAvailability, 0, len(grid))
	for _, slot := range grid {
		remaining := capacity
		if busyFor != nil && capacity > 0 {
			remaining = capacity - busyFor(slot)
		}

		isPast := today && slot.Minutes() < nowMinute
		if isPast || remaining < 0 {
			remaining = 0
		}

		slots = append(slots, domain.SlotAvailability{
			Time:      slot,
			Capacity:  capacity,
			Remaining: remaining,
			IsPast:    isPast,
			IsBooked:  remaining <= 0,
		})
	}

	return slots
}

// Grid возвращает сетку бизнеса
func (s *Service) Grid(ctx context.Context, businessUserID int64) ([]types.TimeString, domain.BusinessSlotConfig, error) {
	cfg, err := s.slotConfig(ctx, businessUserID)
	if err != nil {
		return nil, domain.BusinessSlotConfig{}, err
	}
	return gridFor(cfg), cfg, nil
}

func gridFor(cfg domain.BusinessSlotConfig) []types.TimeString {
	return BuildTimeGrid(cfg.OpenTime.String(), cfg.CloseTime.String(), cfg.StepMinutes)
}
