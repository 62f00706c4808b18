package domain

// Default booking grid
const (
	DefaultOpenTime        = "09:00"
	DefaultCloseTime       = "20:00"
	DefaultSlotStepMinutes = 30
)

// Business validation constants
const (
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 240
	MaxCustomerNameLength       = 120
	MaxPhoneLength              = 20
	MaxNoteLength               = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// LoadScope selects how daily load influences staff ranking
type LoadScope string

const (
	// LoadScopeDay ranks by the count of non-canceled bookings over the whole date
	LoadScopeDay LoadScope = "day"
	// LoadScopeNone ignores load and ranks by staff id only
	LoadScopeNone LoadScope = "none"
)

// ParseLoadScope maps a config value to a LoadScope, defaulting to LoadScopeDay
func ParseLoadScope(s string) LoadScope {
	if LoadScope(s) == LoadScopeNone {
		return LoadScopeNone
	}
	return LoadScopeDay
}
