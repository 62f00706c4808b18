// Package availability считает доступность слотов и назначает сотрудника на бронирование
package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/service"
)

// ErrInternal возвращается при ошибках хранилища
var ErrInternal = errors.New("availability: internal error")

// Service движок доступности слотов и назначения сотрудников
type Service struct {
	staffRepo   StaffRepository
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	slotConfigs SlotConfigProvider
	clock       Clock
	loadScope   domain.LoadScope
	logger      Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	staffRepo StaffRepository,
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	slotConfigs SlotConfigProvider,
	timeProvider TimeProvider,
	loadScope domain.LoadScope,
	logger Logger,
) *Service {
	return &Service{
		staffRepo:   staffRepo,
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		slotConfigs: slotConfigs,
		clock:       NewClock(timeProvider),
		loadScope:   loadScope,
		logger:      logger,
	}
}

// Clock возвращает часы сервиса (используются usecase для проверки дат)
func (s *Service) Clock() Clock {
	return s.clock
}

// EligibleStaff возвращает отсортированный список сотрудников, которые могут выполнить услугу
// Пустой список не является ошибкой
func (s *Service) EligibleStaff(ctx context.Context, businessUserID, serviceID int64) ([]int64, error) {
	ids, err := s.staffRepo.ListEligibleStaff(ctx, businessUserID, serviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: list eligible staff: %w", ErrInternal, err)
	}
	return normalizeIDs(ids), nil
}

// BusyStaff возвращает кандидатов, у которых есть неотмененное бронирование, пересекающееся с requested
// Каждый вызов заново читает бронирования из хранилища
func (s *Service) BusyStaff(
	ctx context.Context,
	date time.Time,
	requested domain.Interval,
	candidates []int64,
	stepMinutes int,
) (map[int64]struct{}, error) {
	if len(candidates) == 0 {
		return map[int64]struct{}{}, nil
	}

	bookings, err := s.bookingRepo.ListStaffBookings(ctx, date, candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: list staff bookings: %w", ErrInternal, err)
	}

	return busyFrom(bookings, requested, candidates, stepMinutes), nil
}

// resolveService получает активную услугу; nil без ошибки означает, что услуга отсутствует или неактивна
func (s *Service) resolveService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get service: %w", ErrInternal, err)
	}
	if !service.IsActive {
		return nil, nil
	}
	return service, nil
}

func (s *Service) slotConfig(ctx context.Context, businessUserID int64) (domain.BusinessSlotConfig, error) {
	cfg, err := s.slotConfigs.GetSlotConfig(ctx, businessUserID)
	if err != nil {
		return domain.BusinessSlotConfig{}, fmt.Errorf("%w: get slot config: %w", ErrInternal, err)
	}
	return cfg, nil
}

// busyFrom чистая часть расчета занятости
func busyFrom(bookings []domain.StaffBooking, requested domain.Interval, candidates []int64, stepMinutes int) map[int64]struct{} {
	allowed := make(map[int64]struct{}, len(candidates))
	for _, id := range candidates {
		allowed[id] = struct{}{}
	}

	busy := make(map[int64]struct{})
	for _, b := range bookings {
		if !b.Occupies() {
			continue
		}
		if _, ok := allowed[b.StaffUserID]; !ok {
			continue
		}
		if b.Interval(stepMinutes).Overlaps(requested) {
			busy[b.StaffUserID] = struct{}{}
		}
	}

	return busy
}

// normalizeIDs сортирует по возрастанию и убирает дубликаты
func normalizeIDs(ids []int64) []int64 {
	result := make([]int64, len(ids))
	copy(result, ids)
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })

	n := 0
	for i, id := range result {
		if i > 0 && id == result[n-1] {
			continue
		}
		result[n] = id
		n++
	}
	return result[:n]
}
