package model

import "time"

// Assignment status values. Transitions only move forward:
// assigned -> en_route -> arrived -> completed.
const (
	AssignmentAssigned  = "assigned"
	AssignmentEnRoute   = "en_route"
	AssignmentArrived   = "arrived"
	AssignmentCompleted = "completed"
)

// AssignmentStatusRank orders the assignment statuses for the forward-only
// transition check. Unknown statuses rank -1.
func AssignmentStatusRank(status string) int {
	switch status {
	case AssignmentAssigned:
		return 0
	case AssignmentEnRoute:
		return 1
	case AssignmentArrived:
		return 2
	case AssignmentCompleted:
		return 3
	}
	return -1
}

// Priority values for assignments.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// JobAssignment pairs one staff member with one job/property, with the
// scheduling metadata the mobile app renders.
type JobAssignment struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	JobID        string    `gorm:"index;size:64" json:"jobId,omitempty"`
	StaffID      string    `gorm:"index;size:64;not null" json:"staffId"`
	StaffName    string    `gorm:"size:128" json:"staffName"`
	PropertyID   string    `gorm:"index;size:64;not null" json:"propertyId"`
	PropertyName string    `gorm:"size:128" json:"propertyName"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	ETA          int       `json:"eta"`
	Status       string    `gorm:"size:32;not null" json:"status"`
	Distance     float64   `json:"distance"`
	JobType      string    `gorm:"size:64;not null" json:"jobType"`
	Priority     string    `gorm:"size:16;not null" json:"priority"`
	AssignedAt   time.Time `gorm:"not null" json:"assignedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
