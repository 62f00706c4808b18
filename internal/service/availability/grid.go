package availability

import (
	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

// BuildTimeGrid генерирует времена слотов от start до end включительно с шагом stepMinutes
// Возвращает пустой список, если start/end не парсятся или шаг не положительный
func BuildTimeGrid(start, end string, stepMinutes int) []types.TimeString {
	grid := make([]types.TimeString, 0)
	if stepMinutes <= 0 {
		return grid
	}

	open, err := types.NewTimeStringFromString(start)
	if err != nil {
		return grid
	}
	closeTime, err := types.NewTimeStringFromString(end)
	if err != nil {
		return grid
	}

	// Шаг положительный, поэтому значения строго возрастают и не повторяются
	for m := open.Minutes(); m <= closeTime.Minutes(); m += stepMinutes {
		slot, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			break
		}
		grid = append(grid, slot)
	}

	return grid
}

// IsOnGrid проверяет, что время является одним из слотов сетки
func IsOnGrid(grid []types.TimeString, t types.TimeString) bool {
	for _, slot := range grid {
		if slot == t {
			return true
		}
	}
	return false
}
