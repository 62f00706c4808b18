package create_booking

import (
	"time"

	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID       int64     // ID клиента
	ServiceID    int64     // ID услуги
	Date         time.Time // Дата бронирования (без времени)
	Time         string    // Время начала слота в формате HH:MM
	CustomerName string
	Phone        string
	Note         *string // Комментарий (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64            // ID созданного бронирования
	CustomerUserID  int64            // ID клиента
	BusinessUserID  int64            // ID бизнеса
	ServiceID       int64            // ID услуги
	StaffUserID     int64            // Назначенный сотрудник
	BookingDate     time.Time        // Дата бронирования
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус бронирования
	ServiceName     string
	CustomerName    string
	Phone           string
	Note            *string

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
