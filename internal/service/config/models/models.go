package models

import (
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

// UpdateConfigRequest запрос на изменение окна слотов бизнеса
type UpdateConfigRequest struct {
	UserID         int64 // Кто меняет (должен быть владельцем)
	BusinessUserID int64
	OpenTime       string
	CloseTime      string
	StepMinutes    int
}

// ConfigResponse окно слотов бизнеса
type ConfigResponse struct {
	BusinessUserID int64            `json:"businessUserId"`
	OpenTime       types.TimeString `json:"openTime"`
	CloseTime      types.TimeString `json:"closeTime"`
	StepMinutes    int              `json:"stepMinutes"`
	SlotsPerDay    int              `json:"slotsPerDay"`
	IsDefault      bool             `json:"isDefault"`
	UpdatedAt      *time.Time       `json:"updatedAt,omitempty"`
}

// FromDomainConfig конвертирует доменную модель в ответ
func FromDomainConfig(cfg *domain.BusinessSlotConfig, slotsPerDay int) *ConfigResponse {
	resp := &ConfigResponse{
		BusinessUserID: cfg.BusinessUserID,
		OpenTime:       cfg.OpenTime,
		CloseTime:      cfg.CloseTime,
		StepMinutes:    cfg.StepMinutes,
		SlotsPerDay:    slotsPerDay,
		IsDefault:      cfg.IsDefault,
	}
	if !cfg.UpdatedAt.IsZero() {
		updatedAt := cfg.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
