package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

// StaffRepository интерфейс репозитория сотрудников
type StaffRepository interface {
	// ListEligibleStaff возвращает активных сотрудников бизнеса, привязанных к услуге
	ListEligibleStaff(ctx context.Context, businessUserID, serviceID int64) ([]int64, error)
}

// BookingRepository интерфейс репозитория бронирований
// Все методы учитывают только неотмененные бронирования
type BookingRepository interface {
	// ListStaffBookings возвращает бронирования указанных сотрудников на дату
	ListStaffBookings(ctx context.Context, date time.Time, staffIDs []int64) ([]domain.StaffBooking, error)
	// HasOverlappingBooking проверяет пересечение для одного сотрудника
	HasOverlappingBooking(ctx context.Context, staffID int64, date time.Time, requested domain.Interval, stepMinutes int) (bool, error)
	// CountDailyLoad возвращает количество бронирований на дату по каждому сотруднику
	CountDailyLoad(ctx context.Context, date time.Time, staffIDs []int64) (map[int64]int, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, serviceID int64) (*domain.Service, error)
}

// SlotConfigProvider возвращает окно слотов бизнеса (или значения по умолчанию)
type SlotConfigProvider interface {
	GetSlotConfig(ctx context.Context, businessUserID int64) (domain.BusinessSlotConfig, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени в часовом поясе бизнеса
type RealTimeProvider struct {
	Location *time.Location
}

// NewRealTimeProvider создает провайдер времени; nil означает локальный часовой пояс
func NewRealTimeProvider(loc *time.Location) *RealTimeProvider {
	if loc == nil {
		loc = time.Local
	}
	return &RealTimeProvider{Location: loc}
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().In(p.Location)
}

// FixedTimeProvider всегда возвращает одно и то же время
type FixedTimeProvider struct {
	Time time.Time
}

// Now возвращает зафиксированное время
func (p FixedTimeProvider) Now() time.Time {
	return p.Time
}

// Clock переводит момент времени в "сегодня" и текущую минуту
type Clock struct {
	tp TimeProvider
}

// NewClock создает Clock поверх TimeProvider
func NewClock(tp TimeProvider) Clock {
	return Clock{tp: tp}
}

// IsToday проверяет, что дата совпадает с сегодняшней по часам провайдера
func (c Clock) IsToday(date time.Time) bool {
	return isSameDay(date, c.tp.Now())
}

// IsPastDate проверяет, что дата раньше сегодняшней
func (c Clock) IsPastDate(date time.Time) bool {
	now := c.tp.Now()
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}

// CurrentMinute возвращает текущее время суток
func (c Clock) CurrentMinute() types.TimeString {
	return types.NewTimeString(c.tp.Now())
}

// isSameDay сравнивает календарные даты без учета часового пояса date
// (дата бронирования хранится без времени и зоны)
func isSameDay(date, now time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
