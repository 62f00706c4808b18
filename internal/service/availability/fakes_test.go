package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	serviceRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/service"
	"github.com/m04kA/SMC-StaffBookingService/pkg/logger"
	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

type memBooking struct {
	staffID   int64
	serviceID int64
	date      string
	start     types.TimeString
	status    domain.BookingStatus
}

// memStore хранилище в памяти, реализующее все репозитории пакета
type memStore struct {
	services map[int64]*domain.Service
	profiles []domain.StaffProfile
	links    map[[2]int64]bool
	bookings []*memBooking
	configs  map[int64]domain.BusinessSlotConfig

	// beforeRecheck вызывается перед каждой повторной проверкой сотрудника
	beforeRecheck func(staffID int64)
	listCalls     int
}

func newMemStore() *memStore {
	return &memStore{
		services: make(map[int64]*domain.Service),
		links:    make(map[[2]int64]bool),
		configs:  make(map[int64]domain.BusinessSlotConfig),
	}
}

func (m *memStore) addService(id, businessID int64, duration int, active bool) {
	m.services[id] = &domain.Service{ID: id, BusinessUserID: businessID, DurationMinutes: duration, IsActive: active}
}

func (m *memStore) addStaff(staffID, businessID int64, active bool, serviceIDs ...int64) {
	m.profiles = append(m.profiles, domain.StaffProfile{StaffUserID: staffID, BusinessUserID: businessID, IsActive: active})
	for _, sid := range serviceIDs {
		m.links[[2]int64{staffID, sid}] = true
	}
}

func (m *memStore) book(staffID, serviceID int64, date time.Time, start types.TimeString, status domain.BookingStatus) *memBooking {
	b := &memBooking{staffID: staffID, serviceID: serviceID, date: date.Format(domain.DateFormat), start: start, status: status}
	m.bookings = append(m.bookings, b)
	return b
}

func (m *memStore) ListEligibleStaff(_ context.Context, businessUserID, serviceID int64) ([]int64, error) {
	ids := make([]int64, 0)
	// Порядок намеренно обратный, чтобы проверить сортировку в сервисе
	for i := len(m.profiles) - 1; i >= 0; i-- {
		p := m.profiles[i]
		if p.BusinessUserID == businessUserID && p.IsActive && m.links[[2]int64{p.StaffUserID, serviceID}] {
			ids = append(ids, p.StaffUserID)
		}
	}
	return ids, nil
}

// ListStaffBookings возвращает и отмененные бронирования: сервис обязан отфильтровать их сам
func (m *memStore) ListStaffBookings(_ context.Context, date time.Time, staffIDs []int64) ([]domain.StaffBooking, error) {
	m.listCalls++
	want := make(map[int64]bool, len(staffIDs))
	for _, id := range staffIDs {
		want[id] = true
	}

	result := make([]domain.StaffBooking, 0)
	for _, b := range m.bookings {
		if b.date != date.Format(domain.DateFormat) || !want[b.staffID] {
			continue
		}
		result = append(result, domain.StaffBooking{
			StaffUserID:     b.staffID,
			StartTime:       b.start,
			DurationMinutes: m.services[b.serviceID].DurationMinutes,
			Status:          b.status,
		})
	}
	return result, nil
}

func (m *memStore) HasOverlappingBooking(_ context.Context, staffID int64, date time.Time, requested domain.Interval, stepMinutes int) (bool, error) {
	if m.beforeRecheck != nil {
		m.beforeRecheck(staffID)
	}
	for _, b := range m.bookings {
		if b.staffID != staffID || b.date != date.Format(domain.DateFormat) || b.status == domain.StatusCanceled {
			continue
		}
		existing := domain.NewInterval(b.start, domain.EffectiveDuration(m.services[b.serviceID].DurationMinutes, stepMinutes))
		if existing.Overlaps(requested) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CountDailyLoad(_ context.Context, date time.Time, staffIDs []int64) (map[int64]int, error) {
	load := make(map[int64]int)
	for _, id := range staffIDs {
		for _, b := range m.bookings {
			if b.staffID == id && b.date == date.Format(domain.DateFormat) && b.status != domain.StatusCanceled {
				load[id]++
			}
		}
	}
	return load, nil
}

func (m *memStore) GetByID(_ context.Context, serviceID int64) (*domain.Service, error) {
	s, ok := m.services[serviceID]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *memStore) GetSlotConfig(_ context.Context, businessUserID int64) (domain.BusinessSlotConfig, error) {
	if cfg, ok := m.configs[businessUserID]; ok {
		return cfg, nil
	}
	return domain.DefaultBusinessSlotConfig(businessUserID), nil
}

func newTestService(store *memStore, now time.Time, scope domain.LoadScope) *Service {
	return NewService(store, store, store, store, FixedTimeProvider{Time: now}, scope, logger.Nop())
}

func slotAt(slots []domain.SlotAvailability, t types.TimeString) domain.SlotAvailability {
	for _, s := range slots {
		if s.Time == t {
			return s
		}
	}
	return domain.SlotAvailability{}
}
