package model

import "time"

// Job status values patched by the progress tracker. The jobs table is owned
// by the booking side of the system; this service only updates its status.
const (
	JobStatusAssigned   = "assigned"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
)

// Job represents a unit of on-site work tied to a booking/property.
type Job struct {
	ID          string `gorm:"primaryKey;size:64"`
	PropertyID  string `gorm:"index;size:64"`
	JobType     string `gorm:"size:64"`
	Status      string `gorm:"size:32;not null"`
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}
