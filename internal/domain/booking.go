package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

// ErrUnknownStatus is returned when a status string does not map to a BookingStatus
var ErrUnknownStatus = errors.New("unknown booking status")

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCanceled  BookingStatus = "canceled"
)

// ParseBookingStatus is the single place where raw status strings become a BookingStatus.
// Case and surrounding whitespace are ignored, and the "cancelled" spelling maps to StatusCanceled.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending, nil
	case "confirmed":
		return StatusConfirmed, nil
	case "completed":
		return StatusCompleted, nil
	case "canceled", "cancelled":
		return StatusCanceled, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
}

// IsValid reports whether s is one of the known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next:
// pending -> confirmed -> completed, and pending|confirmed -> canceled.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch next {
	case StatusConfirmed:
		return s == StatusPending
	case StatusCompleted:
		return s == StatusConfirmed
	case StatusCanceled:
		return s == StatusPending || s == StatusConfirmed
	}
	return false
}

// Booking represents an appointment with an assigned staff member
type Booking struct {
	ID             int64
	CustomerUserID int64
	BusinessUserID int64
	ServiceID      int64
	StaffUserID    int64
	BookingDate    time.Time
	StartTime      types.TimeString
	// DurationMinutes is the effective duration captured when the booking was created
	DurationMinutes int
	Status          BookingStatus

	CustomerName string
	Phone        string
	Note         *string

	// Joined from services for read models
	ServiceName string

	CancellationReason *string
	CanceledAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies staff time
func (b *Booking) IsActive() bool {
	return b.Status != StatusCanceled
}

// CanBeCanceled returns true if the booking can be canceled
func (b *Booking) CanBeCanceled() bool {
	return b.Status.CanTransitionTo(StatusCanceled)
}

// Interval returns the booked time range in minutes from midnight
func (b *Booking) Interval() Interval {
	return NewInterval(b.StartTime, b.DurationMinutes)
}

// IsVisibleTo reports whether the user takes part in the booking as customer, owner or assigned staff
func (b *Booking) IsVisibleTo(userID int64) bool {
	return userID == b.CustomerUserID || userID == b.BusinessUserID || userID == b.StaffUserID
}

// CanBeManagedBy reports whether the user may change the booking status (business owner or assigned staff)
func (b *Booking) CanBeManagedBy(userID int64) bool {
	return userID == b.BusinessUserID || userID == b.StaffUserID
}

// BusinessBookingsFilter фильтр для получения бронирований бизнеса
type BusinessBookingsFilter struct {
	BusinessUserID  int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	StaffUserID     *int64         // Фильтр по сотруднику (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeCanceled bool           // Включать ли отмененные бронирования
}
