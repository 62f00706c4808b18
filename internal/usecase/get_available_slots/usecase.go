package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
)

// UseCase use case для получения доступности слотов услуги
type UseCase struct {
	slots     SlotsBuilder
	txManager TransactionManager
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slots SlotsBuilder, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		slots:     slots,
		txManager: txManager,
		logger:    logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не должна быть в прошлом
	if err := validateDate(req, uc.slots.Clock()); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Строим доступность по сетке бизнеса в одном снимке БД
	var list []domain.SlotAvailability
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		list, err = uc.slots.BuildSlots(txCtx, req.ServiceID, req.Date)
		return err
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build slots for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to build slots: %w", ErrInternal, err)
	}

	free := 0
	for _, s := range list {
		if !s.IsBooked {
			free++
		}
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots (%d free) for service=%d, date=%s",
		len(list), free, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		Slots:     fromDomainSlots(list),
	}, nil
}
