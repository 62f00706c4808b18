package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда БД отклонила вставку из-за пересечения интервалов сотрудника
	// (EXCLUDE ограничение) или конфликта сериализуемой транзакции
	ErrSlotTaken = errors.New("booking.repository: staff slot already taken")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrStatusConflict возвращается, когда статус бронирования изменился конкурентно
	ErrStatusConflict = errors.New("booking.repository: booking status changed concurrently")
)
