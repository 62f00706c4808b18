package create_booking

import (
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-StaffBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID    int64   `json:"serviceId"`
	BookingDate  string  `json:"bookingDate"` // "2025-10-15"
	Time         string  `json:"time"`        // "10:00"
	CustomerName string  `json:"customerName"`
	Phone        string  `json:"phone"`
	Note         *string `json:"note,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	CustomerUserID  int64   `json:"customerUserId"`
	BusinessUserID  int64   `json:"businessUserId"`
	ServiceID       int64   `json:"serviceId"`
	StaffUserID     int64   `json:"staffUserId"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName,omitempty"`
	CustomerName    string  `json:"customerName"`
	Phone           string  `json:"phone"`
	Note            *string `json:"note,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Время передается строкой: его разбор и проверка выполняются в use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:       userID,
		ServiceID:    r.ServiceID,
		Date:         bookingDate,
		Time:         r.Time,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Note:         r.Note,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		CustomerUserID:  resp.CustomerUserID,
		BusinessUserID:  resp.BusinessUserID,
		ServiceID:       resp.ServiceID,
		StaffUserID:     resp.StaffUserID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		CustomerName:    resp.CustomerName,
		Phone:           resp.Phone,
		Note:            resp.Note,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
