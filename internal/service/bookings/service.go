package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/notifications"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	notifier    Notifier
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		notifier:    notifier,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Бронирование видят клиент, владелец бизнеса и назначенный сотрудник
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !booking.IsVisibleTo(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Пользователь видит только свои бронирования
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if req.ActorID != req.UserID {
		s.logger.Warn("GetUserBookings: user=%d tried to read bookings of user=%d", req.ActorID, req.UserID)
		return nil, ErrAccessDenied
	}

	var status *domain.BookingStatus
	if req.Status != nil {
		parsed, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		status = &parsed
	}

	list, err := s.bookingRepo.GetByCustomer(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(list), req.UserID)
	return models.FromDomainBookingList(list), nil
}

// GetBusinessBookings получает бронирования бизнеса с фильтрацией
// по периоду, сотруднику, статусу и включению отмененных
// Доступно только владельцу бизнеса
func (s *Service) GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetBusinessBookings: fetching bookings for business=%d, user=%d", req.BusinessUserID, req.ActorID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.StaffUserID != nil {
		logMsg += fmt.Sprintf(", staff=%d", *req.StaffUserID)
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if req.ActorID != req.BusinessUserID {
		s.logger.Warn("GetBusinessBookings: user=%d is not the owner of business=%d", req.ActorID, req.BusinessUserID)
		return nil, ErrAccessDenied
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessBookings: invalid filter for business=%d: %v", req.BusinessUserID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	list, err := s.bookingRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessBookings: repository error for business=%d: %v", req.BusinessUserID, err)
		return nil, fmt.Errorf("%w: GetBusinessBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessBookings: fetched %d bookings for business=%d", len(list), req.BusinessUserID)
	return models.FromDomainBookingList(list), nil
}

// UpdateStatus переводит бронирование в confirmed или completed
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	status, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch status {
	case domain.StatusConfirmed:
		return s.Confirm(ctx, bookingID, req.UserID)
	case domain.StatusCompleted:
		return s.Complete(ctx, bookingID, req.UserID)
	default:
		return nil, fmt.Errorf("%w: status %q cannot be set directly", ErrInvalidInput, status)
	}
}

// Confirm подтверждает бронирование (pending -> confirmed)
// Доступно владельцу бизнеса и назначенному сотруднику
func (s *Service) Confirm(ctx context.Context, bookingID, userID int64) (*models.BookingResponse, error) {
	return s.transition(ctx, "Confirm", bookingID, userID, domain.StatusConfirmed, nil)
}

// Complete отмечает бронирование выполненным (confirmed -> completed)
func (s *Service) Complete(ctx context.Context, bookingID, userID int64) (*models.BookingResponse, error) {
	return s.transition(ctx, "Complete", bookingID, userID, domain.StatusCompleted, nil)
}

// Cancel отменяет бронирование (pending|confirmed -> canceled)
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	reason := strings.TrimSpace(req.CancellationReason)
	if len([]rune(reason)) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	return s.transition(ctx, "Cancel", bookingID, req.UserID, domain.StatusCanceled, reasonPtr)
}

// transition меняет статус под блокировкой строки и уведомляет клиента после коммита
func (s *Service) transition(
	ctx context.Context,
	op string,
	bookingID, userID int64,
	next domain.BookingStatus,
	reason *string,
) (*models.BookingResponse, error) {
	s.logger.Info("%s: booking id=%d to status=%s by user=%d", op, bookingID, next, userID)

	var booking *domain.Booking

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.load(ctx, op, bookingID)
		if err != nil {
			return err
		}

		if !booking.CanBeManagedBy(userID) {
			s.logger.Warn("%s: access denied for user=%d to booking id=%d", op, userID, bookingID)
			return ErrAccessDenied
		}

		if !booking.Status.CanTransitionTo(next) {
			s.logger.Warn("%s: booking id=%d cannot move from %s to %s", op, bookingID, booking.Status, next)
			return ErrInvalidTransition
		}

		if next == domain.StatusCanceled {
			err = s.bookingRepo.Cancel(ctx, bookingID, booking.Status, reason)
		} else {
			err = s.bookingRepo.UpdateStatus(ctx, bookingID, booking.Status, next)
		}

		if err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				s.logger.Warn("%s: booking id=%d status changed concurrently", op, bookingID)
				return ErrInvalidTransition
			}
			s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrAccessDenied) ||
			errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("%s: transaction error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - transaction error: %v", ErrInternal, op, err)
	}

	booking.Status = next
	if next == domain.StatusCanceled {
		booking.CancellationReason = reason
	}

	s.notifier.Notify(ctx, notifications.BookingStatusChanged(booking))

	s.logger.Info("%s: booking id=%d is now %s", op, bookingID, next)
	return models.FromDomainBooking(booking), nil
}

func (s *Service) load(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}
