package models

import (
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"-"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"-"`
	Status string `json:"status"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	ActorID int64
	UserID  int64
	Status  *string
}

// GetBusinessBookingsRequest запрос на получение бронирований бизнеса
type GetBusinessBookingsRequest struct {
	ActorID         int64
	BusinessUserID  int64
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	StaffUserID     *int64     // Фильтр по сотруднику (опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeCanceled bool       // Включить отмененные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessBookingsRequest) ToDomainFilter() (domain.BusinessBookingsFilter, error) {
	filter := domain.BusinessBookingsFilter{
		BusinessUserID:  r.BusinessUserID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		StaffUserID:     r.StaffUserID,
		IncludeCanceled: r.IncludeCanceled,
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	CustomerUserID  int64   `json:"customerUserId"`
	BusinessUserID  int64   `json:"businessUserId"`
	ServiceID       int64   `json:"serviceId"`
	StaffUserID     int64   `json:"staffUserId"`
	BookingDate     string  `json:"bookingDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName,omitempty"`
	CustomerName    string  `json:"customerName"`
	Phone           string  `json:"phone"`
	Note            *string `json:"note,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CanceledAt         *string `json:"canceledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		CustomerUserID:     b.CustomerUserID,
		BusinessUserID:     b.BusinessUserID,
		ServiceID:          b.ServiceID,
		StaffUserID:        b.StaffUserID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		ServiceName:        b.ServiceName,
		CustomerName:       b.CustomerName,
		Phone:              b.Phone,
		Note:               b.Note,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CanceledAt != nil {
		canceled := b.CanceledAt.Format(time.RFC3339)
		resp.CanceledAt = &canceled
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
