package config

import (
	"context"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	GetByBusiness(ctx context.Context, businessUserID int64) (*domain.BusinessSlotConfig, error)
	Upsert(ctx context.Context, config *domain.BusinessSlotConfig) (*domain.BusinessSlotConfig, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
