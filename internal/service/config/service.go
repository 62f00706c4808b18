package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	configRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/config"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/availability"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/config/models"
	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

// Service сервис для работы с окном слотов бизнеса
type Service struct {
	configRepo ConfigRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(configRepo ConfigRepository, logger Logger) *Service {
	return &Service{
		configRepo: configRepo,
		logger:     logger,
	}
}

// GetSlotConfig возвращает окно слотов бизнеса или значения по умолчанию (09:00-20:00, шаг 30)
func (s *Service) GetSlotConfig(ctx context.Context, businessUserID int64) (domain.BusinessSlotConfig, error) {
	cfg, err := s.configRepo.GetByBusiness(ctx, businessUserID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			return domain.DefaultBusinessSlotConfig(businessUserID), nil
		}
		s.logger.Error("GetSlotConfig: repository error for business=%d: %v", businessUserID, err)
		return domain.BusinessSlotConfig{}, fmt.Errorf("%w: GetSlotConfig - repository error: %v", ErrInternal, err)
	}

	// Сохранённое окно могло стать некорректным после ручной правки в БД
	if err := cfg.Validate(); err != nil {
		s.logger.Warn("GetSlotConfig: stored config for business=%d is invalid (%v), using defaults", businessUserID, err)
		return domain.DefaultBusinessSlotConfig(businessUserID), nil
	}

	return *cfg, nil
}

// Get получает окно слотов бизнеса
// Публичный метод - доступен всем
func (s *Service) Get(ctx context.Context, businessUserID int64) (*models.ConfigResponse, error) {
	if businessUserID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	cfg, err := s.GetSlotConfig(ctx, businessUserID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainConfig(&cfg, slotsPerDay(cfg)), nil
}

// Update сохраняет окно слотов бизнеса
// Доступно только владельцу бизнеса
func (s *Service) Update(ctx context.Context, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Update: updating slot config for business=%d by user=%d", req.BusinessUserID, req.UserID)

	if req.BusinessUserID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.UserID != req.BusinessUserID {
		s.logger.Warn("Update: user=%d is not the owner of business=%d", req.UserID, req.BusinessUserID)
		return nil, ErrAccessDenied
	}

	openTime, err := types.NewTimeStringFromString(req.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("%w: openTime: %v", ErrInvalidInput, err)
	}
	closeTime, err := types.NewTimeStringFromString(req.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("%w: closeTime: %v", ErrInvalidInput, err)
	}

	cfg := &domain.BusinessSlotConfig{
		BusinessUserID: req.BusinessUserID,
		OpenTime:       openTime,
		CloseTime:      closeTime,
		StepMinutes:    req.StepMinutes,
	}

	if err := cfg.Validate(); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, err := s.configRepo.Upsert(ctx, cfg)
	if err != nil {
		s.logger.Error("Update: repository error for business=%d: %v", req.BusinessUserID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: business=%d window %s-%s step %d", saved.BusinessUserID, saved.OpenTime, saved.CloseTime, saved.StepMinutes)
	return models.FromDomainConfig(saved, slotsPerDay(*saved)), nil
}

func slotsPerDay(cfg domain.BusinessSlotConfig) int {
	return len(availability.BuildTimeGrid(cfg.OpenTime.String(), cfg.CloseTime.String(), cfg.StepMinutes))
}
