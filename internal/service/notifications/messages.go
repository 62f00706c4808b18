package notifications

import (
	"fmt"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/pkg/ptr"
)

func bookingLink(b *domain.Booking) *string {
	return ptr.Ptr(fmt.Sprintf("/bookings/%d", b.ID))
}

func bookingWhen(b *domain.Booking) string {
	return fmt.Sprintf("%s %s", b.BookingDate.Format(domain.DateFormat), b.StartTime)
}

// BookingCreated уведомления владельцу бизнеса и назначенному сотруднику о новой записи
func BookingCreated(b *domain.Booking) []*domain.Notification {
	service := b.ServiceName
	if service == "" {
		service = fmt.Sprintf("услуга #%d", b.ServiceID)
	}

	result := []*domain.Notification{{
		UserID:  b.BusinessUserID,
		Title:   "Новая запись",
		Message: fmt.Sprintf("%s записан(а) на %s (%s), сотрудник #%d", b.CustomerName, bookingWhen(b), service, b.StaffUserID),
		Type:    domain.NotificationInfo,
		Link:    bookingLink(b),
	}}

	if b.StaffUserID != b.BusinessUserID {
		result = append(result, &domain.Notification{
			UserID:  b.StaffUserID,
			Title:   "Вам назначена запись",
			Message: fmt.Sprintf("%s записан(а) к вам на %s (%s)", b.CustomerName, bookingWhen(b), service),
			Type:    domain.NotificationInfo,
			Link:    bookingLink(b),
		})
	}

	return result
}

// BookingStatusChanged уведомление клиенту о смене статуса записи
func BookingStatusChanged(b *domain.Booking) *domain.Notification {
	n := &domain.Notification{
		UserID: b.CustomerUserID,
		Link:   bookingLink(b),
	}

	switch b.Status {
	case domain.StatusConfirmed:
		n.Title = "Запись подтверждена"
		n.Message = fmt.Sprintf("Ваша запись на %s подтверждена", bookingWhen(b))
		n.Type = domain.NotificationSuccess
	case domain.StatusCompleted:
		n.Title = "Визит завершен"
		n.Message = fmt.Sprintf("Запись на %s отмечена как выполненная", bookingWhen(b))
		n.Type = domain.NotificationInfo
	case domain.StatusCanceled:
		n.Title = "Запись отменена"
		n.Message = fmt.Sprintf("Ваша запись на %s отменена", bookingWhen(b))
		if b.CancellationReason != nil && *b.CancellationReason != "" {
			n.Message += ": " + *b.CancellationReason
		}
		n.Type = domain.NotificationWarning
	default:
		n.Title = "Статус записи изменен"
		n.Message = fmt.Sprintf("Статус записи на %s: %s", bookingWhen(b), b.Status)
		n.Type = domain.NotificationInfo
	}

	return n
}
