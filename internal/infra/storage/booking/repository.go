package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-StaffBookingService/pkg/pgerr"
	"github.com/m04kA/SMC-StaffBookingService/pkg/psqlbuilder"
)

// startMinutesExpr время начала бронирования в минутах от полуночи
const startMinutesExpr = "(EXTRACT(EPOCH FROM b.start_time) / 60)::int"

var bookingColumns = []string{
	"b.id",
	"b.customer_user_id",
	"b.business_user_id",
	"b.service_id",
	"b.staff_user_id",
	"b.booking_date",
	"b.start_time",
	"b.duration_minutes",
	"b.status",
	"b.customer_name",
	"b.phone",
	"b.note",
	"s.name",
	"b.cancellation_reason",
	"b.canceled_at",
	"b.created_at",
	"b.updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// dateArg передает дату как YYYY-MM-DD, чтобы часовой пояс time.Time не сдвигал день
func dateArg(t time.Time) string {
	return t.Format(domain.DateFormat)
}

func selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Join("services s ON s.id = b.service_id")
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Нарушение EXCLUDE ограничения и конфликт сериализации возвращаются как ErrSlotTaken
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"customer_user_id",
			"business_user_id",
			"service_id",
			"staff_user_id",
			"booking_date",
			"start_time",
			"duration_minutes",
			"status",
			"customer_name",
			"phone",
			"note",
		).
		Values(
			booking.CustomerUserID,
			booking.BusinessUserID,
			booking.ServiceID,
			booking.StaffUserID,
			dateArg(booking.BookingDate),
			booking.StartTime,
			booking.DurationMinutes,
			booking.Status,
			booking.CustomerName,
			booking.Phone,
			booking.Note,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if pgerr.IsExclusionViolation(err) || pgerr.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: staff=%d date=%s time=%s: %v",
				ErrSlotTaken, booking.StaffUserID, dateArg(booking.BookingDate), booking.StartTime, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := selectBookings().Where(squirrel.Eq{"b.id": id})

	// Внутри транзакции блокируем строку для смены статуса
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByCustomer получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomer(ctx context.Context, customerUserID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := selectBookings().
		Where(squirrel.Eq{"b.customer_user_id": customerUserID}).
		OrderBy("b.booking_date DESC", "b.start_time DESC")

	if status != nil {
		builder = builder.Where(squirrel.Eq{"b.status": *status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// businessFilterQuery строит выборку бронирований бизнеса по фильтру
func businessFilterQuery(filter domain.BusinessBookingsFilter) squirrel.SelectBuilder {
	builder := selectBookings().
		Where(squirrel.Eq{"b.business_user_id": filter.BusinessUserID})

	if filter.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"b.booking_date": dateArg(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"b.booking_date": dateArg(*filter.EndDate)})
	}
	if filter.StaffUserID != nil {
		builder = builder.Where(squirrel.Eq{"b.staff_user_id": *filter.StaffUserID})
	}

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"b.status": *filter.Status})
	} else if !filter.IncludeCanceled {
		builder = builder.Where(squirrel.NotEq{"b.status": domain.StatusCanceled})
	}

	return builder.OrderBy("b.booking_date ASC", "b.start_time ASC", "b.staff_user_id ASC")
}

// GetByBusinessWithFilter получает бронирования бизнеса с фильтрацией по периоду, сотруднику и статусу
func (r *Repository) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := businessFilterQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// staffBookingsQuery неотмененные бронирования сотрудников на дату
// Длительность берется из снимка в брони: по нему же работает EXCLUDE ограничение
func staffBookingsQuery(date time.Time, staffIDs []int64) squirrel.SelectBuilder {
	return psqlbuilder.Select("b.staff_user_id", "b.start_time", "b.duration_minutes", "b.status").
		From("bookings b").
		Where(squirrel.Eq{"b.booking_date": dateArg(date), "b.staff_user_id": staffIDs}).
		Where(squirrel.NotEq{"b.status": domain.StatusCanceled}).
		OrderBy("b.staff_user_id ASC", "b.start_time ASC")
}

// ListStaffBookings возвращает неотмененные бронирования указанных сотрудников на дату
func (r *Repository) ListStaffBookings(ctx context.Context, date time.Time, staffIDs []int64) ([]domain.StaffBooking, error) {
	result := make([]domain.StaffBooking, 0)
	if len(staffIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := staffBookingsQuery(date, staffIDs).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffBookings - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaffBookings - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.StaffBooking
		if err := rows.Scan(&b.StaffUserID, &b.StartTime, &b.DurationMinutes, &b.Status); err != nil {
			return nil, fmt.Errorf("%w: ListStaffBookings - scan row: %w", ErrScanRow, err)
		}
		result = append(result, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaffBookings - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// overlapQuery проверяет пересечение [start, start+duration) с requested для одного сотрудника
// duration = снимок длительности в брони, если он положителен, иначе шаг сетки
func overlapQuery(staffID int64, date time.Time, requested domain.Interval, stepMinutes int) squirrel.SelectBuilder {
	if stepMinutes < 1 {
		stepMinutes = 1
	}

	return psqlbuilder.Select("1").
		From("bookings b").
		Where(squirrel.Eq{"b.staff_user_id": staffID, "b.booking_date": dateArg(date)}).
		Where(squirrel.NotEq{"b.status": domain.StatusCanceled}).
		Where(squirrel.Expr(startMinutesExpr+" < ?", requested.End)).
		Where(squirrel.Expr(
			startMinutesExpr+" + CASE WHEN b.duration_minutes > 0 THEN b.duration_minutes ELSE ? END > ?",
			stepMinutes, requested.Start,
		)).
		Prefix("SELECT EXISTS (").
		Suffix(")")
}

// HasOverlappingBooking узкая проверка пересечения для одного сотрудника
func (r *Repository) HasOverlappingBooking(
	ctx context.Context,
	staffID int64,
	date time.Time,
	requested domain.Interval,
	stepMinutes int,
) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := overlapQuery(staffID, date, requested, stepMinutes).ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasOverlappingBooking - build select query: %w", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasOverlappingBooking - scan: %w", ErrScanRow, err)
	}

	return exists, nil
}

func dailyLoadQuery(date time.Time, staffIDs []int64) squirrel.SelectBuilder {
	return psqlbuilder.Select("staff_user_id", "COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"booking_date": dateArg(date), "staff_user_id": staffIDs}).
		Where(squirrel.NotEq{"status": domain.StatusCanceled}).
		GroupBy("staff_user_id")
}

// CountDailyLoad возвращает количество неотмененных бронирований на дату по каждому сотруднику
// Сотрудники без бронирований в результат не попадают
func (r *Repository) CountDailyLoad(ctx context.Context, date time.Time, staffIDs []int64) (map[int64]int, error) {
	load := make(map[int64]int, len(staffIDs))
	if len(staffIDs) == 0 {
		return load, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := dailyLoadQuery(date, staffIDs).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountDailyLoad - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountDailyLoad - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var staffID int64
		var count int
		if err := rows.Scan(&staffID, &count); err != nil {
			return nil, fmt.Errorf("%w: CountDailyLoad - scan row: %w", ErrScanRow, err)
		}
		load[staffID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountDailyLoad - rows error: %w", ErrScanRow, err)
	}

	return load, nil
}

// UpdateStatus переводит бронирование из статуса from в статус to
// Если статус уже изменился, возвращает ErrStatusConflict
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execStatusChange(ctx, "UpdateStatus", query, args)
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason *string) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCanceled).
		Set("cancellation_reason", reason).
		Set("canceled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %w", ErrBuildQuery, err)
	}

	return r.execStatusChange(ctx, "Cancel", query, args)
}

func (r *Repository) execStatusChange(ctx context.Context, op, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// scanBooking сканирует одну строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CustomerUserID,
		&booking.BusinessUserID,
		&booking.ServiceID,
		&booking.StaffUserID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.CustomerName,
		&booking.Phone,
		&booking.Note,
		&booking.ServiceName,
		&booking.CancellationReason,
		&booking.CanceledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
