package domain

import "github.com/m04kA/SMC-StaffBookingService/pkg/types"

// SlotAvailability represents one grid time of a day with its staff capacity
type SlotAvailability struct {
	Time      types.TimeString
	Capacity  int // Eligible staff for the service
	Remaining int // Eligible staff still free for this slot
	IsPast    bool
	IsBooked  bool
}

// IsPartiallyAvailable returns true if some but not all staff are free
func (s *SlotAvailability) IsPartiallyAvailable() bool {
	return s.Remaining > 0 && s.Remaining < s.Capacity
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *SlotAvailability) OccupancyRate() float64 {
	if s.Capacity == 0 {
		return 0
	}
	occupied := s.Capacity - s.Remaining
	return float64(occupied) / float64(s.Capacity) * 100
}
