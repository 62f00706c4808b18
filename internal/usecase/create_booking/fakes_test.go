package create_booking

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/service"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/availability"
	"github.com/m04kA/SMC-StaffBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-StaffBookingService/pkg/logger"
)

// store хранилище в памяти для услуг, сотрудников и бронирований
type store struct {
	services  map[int64]*domain.Service
	staff     map[int64][]int64 // serviceID -> staff ids
	bookings  []*domain.Booking
	createErr error
	readErr   error
}

func newStore() *store {
	return &store{
		services: map[int64]*domain.Service{},
		staff:    map[int64][]int64{},
	}
}

func (s *store) GetByID(_ context.Context, serviceID int64) (*domain.Service, error) {
	svc, ok := s.services[serviceID]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return svc, nil
}

func (s *store) ListEligibleStaff(_ context.Context, _, serviceID int64) ([]int64, error) {
	return append([]int64(nil), s.staff[serviceID]...), nil
}

func (s *store) active(date time.Time, staffID int64) []*domain.Booking {
	var result []*domain.Booking
	for _, b := range s.bookings {
		if b.StaffUserID == staffID && b.IsActive() && b.BookingDate.Format(domain.DateFormat) == date.Format(domain.DateFormat) {
			result = append(result, b)
		}
	}
	return result
}

func (s *store) ListStaffBookings(_ context.Context, date time.Time, staffIDs []int64) ([]domain.StaffBooking, error) {
	if s.readErr != nil {
		return nil, fmt.Errorf("%w: ListStaffBookings - execute query: %w", bookingRepo.ErrExecQuery, s.readErr)
	}
	var result []domain.StaffBooking
	for _, id := range staffIDs {
		for _, b := range s.active(date, id) {
			result = append(result, domain.StaffBooking{
				StaffUserID:     b.StaffUserID,
				StartTime:       b.StartTime,
				DurationMinutes: b.DurationMinutes,
				Status:          b.Status,
			})
		}
	}
	return result, nil
}

func (s *store) HasOverlappingBooking(_ context.Context, staffID int64, date time.Time, requested domain.Interval, _ int) (bool, error) {
	for _, b := range s.active(date, staffID) {
		if b.Interval().Overlaps(requested) {
			return true, nil
		}
	}
	return false, nil
}

func (s *store) CountDailyLoad(_ context.Context, date time.Time, staffIDs []int64) (map[int64]int, error) {
	load := map[int64]int{}
	for _, id := range staffIDs {
		if n := len(s.active(date, id)); n > 0 {
			load[id] = n
		}
	}
	return load, nil
}

func (s *store) GetSlotConfig(_ context.Context, businessUserID int64) (domain.BusinessSlotConfig, error) {
	return domain.DefaultBusinessSlotConfig(businessUserID), nil
}

// Create повторяет EXCLUDE ограничение таблицы bookings
func (s *store) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, b := range s.active(booking.BookingDate, booking.StaffUserID) {
		if b.Interval().Overlaps(booking.Interval()) {
			return nil, fmt.Errorf("%w: staff=%d", bookingRepo.ErrSlotTaken, booking.StaffUserID)
		}
	}
	booking.ID = int64(len(s.bookings) + 1)
	s.bookings = append(s.bookings, booking)
	return booking, nil
}

// serialTx выполняет транзакции строго по одной
type serialTx struct {
	mu  sync.Mutex
	err error
}

func (tx *serialTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.err != nil {
		return tx.err
	}
	return fn(ctx)
}

// nopTx транзакция без БД для настоящего txmanager
type nopTx struct{}

func (nopTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) { return nil, nil }
func (nopTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) { return nil, nil }
func (nopTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row        { return nil }
func (nopTx) Commit() error                                                         { return nil }
func (nopTx) Rollback() error                                                       { return nil }

type nopBeginner struct{}

func (nopBeginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	return nopTx{}, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*domain.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, list ...*domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, list...)
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *countingMetrics) IncBookingAssignment(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = map[string]int{}
	}
	m.outcomes[outcome]++
}

type fixture struct {
	store    *store
	tx       *serialTx
	notifier *recordingNotifier
	metrics  *countingMetrics
	uc       *UseCase
}

func newFixture(now time.Time) *fixture {
	st := newStore()
	log := logger.Nop()
	engine := availability.NewService(st, st, st, st, availability.FixedTimeProvider{Time: now}, domain.LoadScopeDay, log)

	f := &fixture{
		store:    st,
		tx:       &serialTx{},
		notifier: &recordingNotifier{},
		metrics:  &countingMetrics{},
	}
	f.uc = NewUseCase(st, st, engine, f.tx, f.notifier, f.metrics, log)
	return f
}
