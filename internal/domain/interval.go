package domain

import "github.com/m04kA/SMC-StaffBookingService/pkg/types"

// Interval is a half-open time range [Start, End) in minutes from midnight.
// End may exceed 1440 when a booking runs past midnight.
type Interval struct {
	Start int
	End   int
}

// NewInterval builds [start, start+duration). Durations below one minute are widened to one minute.
func NewInterval(start types.TimeString, durationMinutes int) Interval {
	if durationMinutes < 1 {
		durationMinutes = 1
	}
	s := start.Minutes()
	return Interval{Start: s, End: s + durationMinutes}
}

// Overlaps applies the half-open rule: other.Start < i.End && other.End > i.Start
func (i Interval) Overlaps(other Interval) bool {
	return other.Start < i.End && other.End > i.Start
}

// EffectiveDuration falls back to the grid step when the configured service duration is not positive
func EffectiveDuration(serviceDurationMinutes, stepMinutes int) int {
	if serviceDurationMinutes > 0 {
		return serviceDurationMinutes
	}
	if stepMinutes > 0 {
		return stepMinutes
	}
	return 1
}

// StaffBooking is the minimal view of an existing booking needed for overlap checks.
// DurationMinutes is the current service duration and may be non-positive.
type StaffBooking struct {
	StaffUserID     int64
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus
}

// Occupies reports whether the booking blocks staff time
func (b StaffBooking) Occupies() bool {
	return b.Status != StatusCanceled
}

// Interval returns the occupied range using the effective duration for the given grid step
func (b StaffBooking) Interval(stepMinutes int) Interval {
	return NewInterval(b.StartTime, EffectiveDuration(b.DurationMinutes, stepMinutes))
}
