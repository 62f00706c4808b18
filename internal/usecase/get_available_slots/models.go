package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date      time.Time // Дата, на которую запрашивались слоты
	ServiceID int64     // ID услуги
	Slots     []Slot    // Все слоты сетки, включая занятые
}

// Slot модель временного слота
type Slot struct {
	Value     types.TimeString // Время начала слота (например, "10:00")
	IsBooked  bool             // Свободных сотрудников нет
	Capacity  int              // Число подходящих сотрудников
	Remaining int              // Число свободных сотрудников
	IsPast    bool             // Слот сегодняшнего дня уже прошел
}

func fromDomainSlots(list []domain.SlotAvailability) []Slot {
	slots := make([]Slot, 0, len(list))
	for _, s := range list {
		slots = append(slots, Slot{
			Value:     s.Time,
			IsBooked:  s.IsBooked,
			Capacity:  s.Capacity,
			Remaining: s.Remaining,
			IsPast:    s.IsPast,
		})
	}
	return slots
}
