package progress

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"villa-ops-backend/internal/apperr"
	"villa-ops-backend/internal/model"
	"villa-ops-backend/internal/notification"
	"villa-ops-backend/internal/risk"
	"villa-ops-backend/internal/store"
)

// SourceMobileApp tags progress-log rows written through this channel.
const SourceMobileApp = "mobile_app"

// Location is a staff member's reported position.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Update is one progress report from the worker on site.
type Update struct {
	JobID               string         `json:"jobId"`
	StaffID             string         `json:"staffId"`
	CurrentStage        model.JobStage `json:"currentStage"`
	ProgressPercentage  int            `json:"progressPercentage"`
	Notes               *string        `json:"notes,omitempty"`
	Photos              []string       `json:"photos,omitempty"`
	EstimatedCompletion *time.Time     `json:"estimatedCompletion,omitempty"`
	Location            *Location      `json:"location,omitempty"`
}

// Alerter receives delay escalations. Satisfied by notification.AlertPool.
type Alerter interface {
	Dispatch(alert notification.Alert)
}

// Tracker accepts progress reports, scores delay risk, persists the snapshot
// and audit trail, and escalates when risk crosses the alert threshold.
type Tracker struct {
	store          store.Store
	scorer         *risk.Scorer
	alerter        Alerter
	alertThreshold int
	now            func() time.Time
}

// NewTracker wires a tracker. alerter may be nil, in which case threshold
// crossings still create alert records but nothing is paged.
func NewTracker(s store.Store, scorer *risk.Scorer, alerter Alerter, alertThreshold int) *Tracker {
	return &Tracker{
		store:          s,
		scorer:         scorer,
		alerter:        alerter,
		alertThreshold: alertThreshold,
		now:            time.Now,
	}
}

// WithClock overrides the tracker's clock. Test hook.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// SubmitProgress validates and applies one progress report. On success the
// stored snapshot (including the freshly computed delay risk) is returned.
// Validation failures happen before any write; a persistence failure aborts
// the remaining steps; alert delivery is fire-and-forget.
func (t *Tracker) SubmitProgress(ctx context.Context, u Update) (*model.JobProgress, error) {
	if u.JobID == "" {
		return nil, apperr.Validationf("jobId is required")
	}
	if u.StaffID == "" {
		return nil, apperr.Validationf("staffId is required")
	}
	if u.CurrentStage == "" {
		return nil, apperr.Validationf("currentStage is required")
	}
	if !model.ValidStage(u.CurrentStage) {
		return nil, apperr.Validationf("unknown stage %q", u.CurrentStage)
	}

	now := t.now()
	pct := risk.Clamp(u.ProgressPercentage, 0, 100)
	delayRisk := t.scorer.Score(u.CurrentStage, pct)

	snap := &model.JobProgress{
		JobID:              u.JobID,
		StaffID:            u.StaffID,
		CurrentStage:       u.CurrentStage,
		ProgressPercentage: pct,
		DelayRisk:          delayRisk,
		LastUpdate:         now,
	}

	var mergeCols []string
	if u.Notes != nil {
		snap.Notes = *u.Notes
		mergeCols = append(mergeCols, store.ColNotes)
	}
	if u.Photos != nil {
		snap.Photos = u.Photos
		mergeCols = append(mergeCols, store.ColPhotos)
	}
	if u.EstimatedCompletion != nil {
		snap.EstimatedCompletion = u.EstimatedCompletion
		mergeCols = append(mergeCols, store.ColEstimatedCompletion)
	}
	if u.Location != nil {
		snap.LocationLat = &u.Location.Lat
		snap.LocationLng = &u.Location.Lng
		snap.LocationUpdatedAt = &now
		mergeCols = append(mergeCols, store.ColLocationLat, store.ColLocationLng, store.ColLocationUpdatedAt)
	}

	if err := t.store.UpsertProgress(ctx, snap, mergeCols); err != nil {
		return nil, err
	}

	switch u.CurrentStage {
	case model.StageCompleted:
		completedAt := now
		if err := t.store.SetJobStatus(ctx, u.JobID, model.JobStatusCompleted, &completedAt, now); err != nil {
			return nil, err
		}
	case model.StageInProgress:
		if err := t.store.SetJobStatus(ctx, u.JobID, model.JobStatusInProgress, nil, now); err != nil {
			return nil, err
		}
	}

	entry := &model.ProgressLog{
		ID:        uuid.NewString(),
		JobID:     u.JobID,
		StaffID:   u.StaffID,
		Stage:     u.CurrentStage,
		Progress:  pct,
		DelayRisk: delayRisk,
		Source:    SourceMobileApp,
		CreatedAt: now,
	}
	if err := t.store.AppendProgressLog(ctx, entry); err != nil {
		return nil, err
	}

	if delayRisk > t.alertThreshold {
		if err := t.escalate(ctx, u.JobID, u.StaffID, delayRisk, now); err != nil {
			return nil, err
		}
	}

	return snap, nil
}

func (t *Tracker) escalate(ctx context.Context, jobID, staffID string, delayRisk int, now time.Time) error {
	alert := &model.DelayAlert{
		ID:          uuid.NewString(),
		JobID:       jobID,
		StaffID:     staffID,
		DelayRisk:   delayRisk,
		Severity:    model.SeverityForRisk(delayRisk),
		Status:      model.AlertStatusActive,
		TriggeredAt: now,
	}
	if err := t.store.CreateDelayAlert(ctx, alert); err != nil {
		return err
	}

	// Paging is best-effort; a broken provider must not fail the update.
	if t.alerter != nil {
		t.alerter.Dispatch(notification.Alert{
			JobID:     jobID,
			StaffID:   staffID,
			DelayRisk: delayRisk,
			Severity:  alert.Severity,
		})
	}
	return nil
}

// GetProgress returns the current snapshot for a job, or a zeroed
// not-started stub when the job has never reported. Never a not-found error.
func (t *Tracker) GetProgress(ctx context.Context, jobID string) (*model.JobProgress, error) {
	snap, err := t.store.GetProgress(ctx, jobID)
	if errors.Is(err, apperr.ErrNotFound) {
		return &model.JobProgress{
			JobID:              jobID,
			CurrentStage:       model.StageNotStarted,
			ProgressPercentage: 0,
			DelayRisk:          0,
			LastUpdate:         t.now(),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}
