package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/booking"
	serviceRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/service"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/notifications"
	"github.com/m04kA/SMC-StaffBookingService/pkg/metrics"
	"github.com/m04kA/SMC-StaffBookingService/pkg/txmanager"
)

// UseCase use case для создания бронирования с автоматическим назначением сотрудника
type UseCase struct {
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	picker      StaffPicker
	txManager   TransactionManager
	notifier    Notifier
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	picker StaffPicker,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		picker:      picker,
		txManager:   txManager,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования
// Выбор сотрудника и вставка выполняются в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, service=%d, date=%s, time=%s",
		req.UserID, req.ServiceID, req.Date.Format(domain.DateFormat), req.Time)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	start, err := parseStartTime(req.Time)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if err := validateService(service); err != nil {
		uc.logger.Warn("CreateBooking: service id=%d is not active", req.ServiceID)
		return nil, err
	}

	// 3. Проверяем дату и время по сетке бизнеса
	clock := uc.picker.Clock()
	if err := validateDate(req, clock); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	grid, cfg, err := uc.picker.Grid(ctx, service.BusinessUserID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get grid for business=%d: %v", service.BusinessUserID, err)
		return nil, fmt.Errorf("%w: failed to get grid: %v", ErrInternal, err)
	}

	if err := validateBookingTime(req, start, grid, clock); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	duration := domain.EffectiveDuration(service.DurationMinutes, cfg.StepMinutes)

	var result *domain.Booking

	// 4. Выбор сотрудника и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		staffID, found, err := uc.picker.PickStaff(txCtx, service.BusinessUserID, service.ID, req.Date, start, duration)
		if err != nil {
			return fmt.Errorf("%w: failed to pick staff: %w", ErrInternal, err)
		}
		if !found {
			uc.metrics.IncBookingAssignment(metrics.OutcomeNoStaff)
			uc.logger.Warn("CreateBooking: no free staff for service=%d at %s %s",
				service.ID, req.Date.Format(domain.DateFormat), start)
			return ErrSlotNotAvailable
		}

		booking := &domain.Booking{
			CustomerUserID:  req.UserID,
			BusinessUserID:  service.BusinessUserID,
			ServiceID:       service.ID,
			StaffUserID:     staffID,
			BookingDate:     req.Date,
			StartTime:       start,
			DurationMinutes: duration,
			Status:          domain.StatusPending,
			CustomerName:    req.CustomerName,
			Phone:           req.Phone,
			Note:            req.Note,
			ServiceName:     service.Name,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return err
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) || errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.metrics.IncBookingAssignment(metrics.OutcomeConflict)
			uc.logger.Warn("CreateBooking: slot taken concurrently for service=%d at %s %s: %v",
				service.ID, req.Date.Format(domain.DateFormat), start, err)
			return nil, ErrSlotNotAvailable
		}
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction error: %v", err)
		return nil, fmt.Errorf("%w: transaction error: %v", ErrInternal, err)
	}

	uc.metrics.IncBookingAssignment(metrics.OutcomeAssigned)
	uc.logger.Info("CreateBooking: created booking id=%d, staff=%d", result.ID, result.StaffUserID)

	// 5. Уведомляем владельца бизнеса и сотрудника
	uc.notifier.Notify(ctx, notifications.BookingCreated(result)...)

	return &Response{
		ID:              result.ID,
		CustomerUserID:  result.CustomerUserID,
		BusinessUserID:  result.BusinessUserID,
		ServiceID:       result.ServiceID,
		StaffUserID:     result.StaffUserID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		CustomerName:    result.CustomerName,
		Phone:           result.Phone,
		Note:            result.Note,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
