package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-StaffBookingService/pkg/types"
)

// ErrInvalidSlotWindow is returned when a business slot window is inconsistent
var ErrInvalidSlotWindow = errors.New("invalid slot window")

// BusinessSlotConfig is the booking grid of a business: slots from OpenTime to CloseTime inclusive every StepMinutes
type BusinessSlotConfig struct {
	BusinessUserID int64
	OpenTime       types.TimeString
	CloseTime      types.TimeString
	StepMinutes    int
	// IsDefault is true when the business has no stored config
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultBusinessSlotConfig returns the window used when a business has not configured one
func DefaultBusinessSlotConfig(businessUserID int64) BusinessSlotConfig {
	return BusinessSlotConfig{
		BusinessUserID: businessUserID,
		OpenTime:       DefaultOpenTime,
		CloseTime:      DefaultCloseTime,
		StepMinutes:    DefaultSlotStepMinutes,
		IsDefault:      true,
	}
}

// Validate checks that times parse, OpenTime < CloseTime and the step is within bounds
func (c *BusinessSlotConfig) Validate() error {
	if err := c.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: open time: %v", ErrInvalidSlotWindow, err)
	}
	if err := c.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: close time: %v", ErrInvalidSlotWindow, err)
	}
	if !c.OpenTime.IsBefore(c.CloseTime) {
		return fmt.Errorf("%w: open time %s must be before close time %s", ErrInvalidSlotWindow, c.OpenTime, c.CloseTime)
	}
	if c.StepMinutes < MinSlotStepMinutes || c.StepMinutes > MaxSlotStepMinutes {
		return fmt.Errorf("%w: step must be between %d and %d minutes", ErrInvalidSlotWindow, MinSlotStepMinutes, MaxSlotStepMinutes)
	}
	return nil
}
