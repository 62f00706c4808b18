package update_business_config

import "github.com/m04kA/SMC-StaffBookingService/internal/service/config/models"

// UpdateSlotConfigRequest HTTP request model
type UpdateSlotConfigRequest struct {
	OpenTime    string `json:"openTime"`  // "09:00"
	CloseTime   string `json:"closeTime"` // "20:00"
	StepMinutes int    `json:"stepMinutes"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос сервиса
func (r *UpdateSlotConfigRequest) ToServiceRequest(userID, businessUserID int64) *models.UpdateConfigRequest {
	return &models.UpdateConfigRequest{
		UserID:         userID,
		BusinessUserID: businessUserID,
		OpenTime:       r.OpenTime,
		CloseTime:      r.CloseTime,
		StepMinutes:    r.StepMinutes,
	}
}
