package domain

import "time"

// Service is something a business sells and staff perform
type Service struct {
	ID              int64
	BusinessUserID  int64
	Name            string
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
}

// StaffProfile links a staff user to exactly one business
type StaffProfile struct {
	StaffUserID    int64
	BusinessUserID int64
	DisplayName    string
	IsActive       bool
	CreatedAt      time.Time
}
