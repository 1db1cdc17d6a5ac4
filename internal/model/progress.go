package model

import "time"

// JobStage identifies how far along a job is.
type JobStage string

const (
	StageNotStarted   JobStage = "not_started"
	StageTraveling    JobStage = "traveling"
	StageOnSite       JobStage = "on_site"
	StageInProgress   JobStage = "in_progress"
	StageQualityCheck JobStage = "quality_check"
	StageCompleted    JobStage = "completed"
)

// ValidStage reports whether s is one of the six known stages.
func ValidStage(s JobStage) bool {
	switch s {
	case StageNotStarted, StageTraveling, StageOnSite, StageInProgress, StageQualityCheck, StageCompleted:
		return true
	}
	return false
}

// JobProgress is the current snapshot of a job's progress, one row per job,
// merge-upserted on every report from the assigned worker.
type JobProgress struct {
	JobID              string   `gorm:"primaryKey;size:64" json:"jobId"`
	StaffID            string   `gorm:"size:64;not null" json:"staffId"`
	CurrentStage       JobStage `gorm:"size:32;not null" json:"currentStage"`
	ProgressPercentage int      `gorm:"not null" json:"progressPercentage"`
	// DelayRisk is derived on every update, never client-supplied.
	DelayRisk           int        `gorm:"not null" json:"delayRisk"`
	LastUpdate          time.Time  `gorm:"not null" json:"lastUpdate"`
	Notes               string     `json:"notes,omitempty"`
	Photos              []string   `gorm:"serializer:json" json:"photos,omitempty"`
	EstimatedCompletion *time.Time `json:"estimatedCompletion,omitempty"`
	LocationLat         *float64   `json:"locationLat,omitempty"`
	LocationLng         *float64   `json:"locationLng,omitempty"`
	LocationUpdatedAt   *time.Time `json:"locationUpdatedAt,omitempty"`
}

// ProgressLog is the append-only audit trail, one row per progress report.
// Rows are never mutated after write; ordering is write order.
type ProgressLog struct {
	ID        string    `gorm:"primaryKey;size:36"`
	JobID     string    `gorm:"index;size:64;not null"`
	StaffID   string    `gorm:"size:64;not null"`
	Stage     JobStage  `gorm:"size:32;not null"`
	Progress  int       `gorm:"not null"`
	DelayRisk int       `gorm:"not null"`
	Source    string    `gorm:"size:32;not null"`
	CreatedAt time.Time `gorm:"index;not null"`
}

// Alert severity bands, fixed at creation time from the realized risk.
const (
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SeverityForRisk maps a delay-risk score to an alert severity.
func SeverityForRisk(risk int) string {
	switch {
	case risk > 90:
		return SeverityCritical
	case risk > 80:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// DelayAlert records a job whose delay risk crossed the escalation threshold.
type DelayAlert struct {
	ID          string    `gorm:"primaryKey;size:36"`
	JobID       string    `gorm:"index;size:64;not null"`
	StaffID     string    `gorm:"size:64;not null"`
	DelayRisk   int       `gorm:"not null"`
	Severity    string    `gorm:"size:16;not null"`
	Status      string    `gorm:"size:16;not null"`
	TriggeredAt time.Time `gorm:"not null"`
}

// AlertStatusActive is the initial (and currently only) alert status.
const AlertStatusActive = "active"
