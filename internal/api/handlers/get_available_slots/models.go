package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-StaffBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date      string          `json:"date"`
	ServiceID int64           `json:"serviceId"`
	Slots     []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Value     string `json:"value"`
	IsBooked  bool   `json:"isBooked"`
	Capacity  int    `json:"capacity"`
	Remaining int    `json:"remaining"`
	IsPast    bool   `json:"isPast"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Value:     slot.Value.String(),
			IsBooked:  slot.IsBooked,
			Capacity:  slot.Capacity,
			Remaining: slot.Remaining,
			IsPast:    slot.IsPast,
		}
	}

	return &AvailableSlotsResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		ServiceID: resp.ServiceID,
		Slots:     slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ServiceID: serviceID,
		Date:      date,
	}, nil
}
