package toggle_staff_active

import "github.com/m04kA/SMC-StaffBookingService/internal/domain"

// StaffActiveResponse состояние сотрудника после переключения
type StaffActiveResponse struct {
	StaffUserID    int64 `json:"staffUserId"`
	BusinessUserID int64 `json:"businessUserId"`
	IsActive       bool  `json:"isActive"`
}

// FromDomainProfile конвертирует domain модель в HTTP response
func FromDomainProfile(p *domain.StaffProfile) *StaffActiveResponse {
	return &StaffActiveResponse{
		StaffUserID:    p.StaffUserID,
		BusinessUserID: p.BusinessUserID,
		IsActive:       p.IsActive,
	}
}
