package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"villa-ops-backend/internal/apperr"
	"villa-ops-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	UpsertProgress(ctx context.Context, snap *model.JobProgress, mergeCols []string) error
	GetProgress(ctx context.Context, jobID string) (*model.JobProgress, error)
	AppendProgressLog(ctx context.Context, entry *model.ProgressLog) error
	CreateDelayAlert(ctx context.Context, alert *model.DelayAlert) error
	SetJobStatus(ctx context.Context, jobID, status string, completedAt *time.Time, now time.Time) error

	CreateAssignment(ctx context.Context, a *model.JobAssignment) error
	GetAssignment(ctx context.Context, id string) (*model.JobAssignment, error)
	UpdateAssignmentStatus(ctx context.Context, id, status string, eta int, now time.Time) error

	ListStaffDevices(ctx context.Context, staffIDs []string) ([]model.StaffDevice, error)
	SaveStaffDevice(ctx context.Context, d *model.StaffDevice) error
	DeleteStaffDeviceTarget(ctx context.Context, target string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// UpsertProgress creates the snapshot for snap.JobID or merges it into the
// existing row. mergeCols lists the optional columns the report supplied;
// omitted optionals keep their stored values.
func (s *gormStore) UpsertProgress(ctx context.Context, snap *model.JobProgress, mergeCols []string) error {
	cols := make([]string, 0, len(baseProgressCols)+len(mergeCols))
	cols = append(cols, baseProgressCols...)
	cols = append(cols, mergeCols...)

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(snap).Error
	if err != nil {
		return fmt.Errorf("failed to upsert progress for job %s: %w", snap.JobID, err)
	}
	return nil
}

func (s *gormStore) GetProgress(ctx context.Context, jobID string) (*model.JobProgress, error) {
	var snap model.JobProgress
	err := s.db.WithContext(ctx).First(&snap, "job_id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress for job %s: %w", jobID, err)
	}
	return &snap, nil
}

func (s *gormStore) AppendProgressLog(ctx context.Context, entry *model.ProgressLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append progress log for job %s: %w", entry.JobID, err)
	}
	return nil
}

func (s *gormStore) CreateDelayAlert(ctx context.Context, alert *model.DelayAlert) error {
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("failed to create delay alert for job %s: %w", alert.JobID, err)
	}
	return nil
}

// SetJobStatus patches the parent job row. The jobs table is owned by the
// booking side; only status, completed_at and updated_at are touched, and a
// missing row is not an error.
func (s *gormStore) SetJobStatus(ctx context.Context, jobID, status string, completedAt *time.Time, now time.Time) error {
	patch := map[string]any{
		"status":     status,
		"updated_at": now,
	}
	if completedAt != nil {
		patch["completed_at"] = *completedAt
	}
	err := s.db.WithContext(ctx).Model(&model.Job{}).Where("id = ?", jobID).Updates(patch).Error
	if err != nil {
		return fmt.Errorf("failed to set status %q on job %s: %w", status, jobID, err)
	}
	return nil
}

func (s *gormStore) CreateAssignment(ctx context.Context, a *model.JobAssignment) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create assignment %s: %w", a.ID, err)
	}
	return nil
}

func (s *gormStore) GetAssignment(ctx context.Context, id string) (*model.JobAssignment, error) {
	var a model.JobAssignment
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment %s: %w", id, err)
	}
	return &a, nil
}

func (s *gormStore) UpdateAssignmentStatus(ctx context.Context, id, status string, eta int, now time.Time) error {
	err := s.db.WithContext(ctx).Model(&model.JobAssignment{}).Where("id = ?", id).Updates(map[string]any{
		"status":     status,
		"eta":        eta,
		"updated_at": now,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update assignment %s: %w", id, err)
	}
	return nil
}

func (s *gormStore) ListStaffDevices(ctx context.Context, staffIDs []string) ([]model.StaffDevice, error) {
	var devices []model.StaffDevice
	err := s.db.WithContext(ctx).Where("staff_id IN ? AND active = ?", staffIDs, true).Find(&devices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list staff devices: %w", err)
	}
	return devices, nil
}

// SaveStaffDevice registers a device, replacing any previous registration
// that carries the same token or endpoint so re-registering is idempotent.
func (s *gormStore) SaveStaffDevice(ctx context.Context, d *model.StaffDevice) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, target := range []string{d.ExpoPushToken, d.FCMToken, d.WebPushEndpoint} {
			if target == "" {
				continue
			}
			if err := deleteByTarget(tx, target); err != nil {
				return err
			}
		}
		return tx.Create(d).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save device for staff %s: %w", d.StaffID, err)
	}
	return nil
}

// DeleteStaffDeviceTarget removes every registration matching the given push
// token or web-push endpoint. Also used by the dispatcher to drop targets the
// provider reported as gone.
func (s *gormStore) DeleteStaffDeviceTarget(ctx context.Context, target string) error {
	if err := deleteByTarget(s.db.WithContext(ctx), target); err != nil {
		return fmt.Errorf("failed to delete device target: %w", err)
	}
	return nil
}

func deleteByTarget(tx *gorm.DB, target string) error {
	return tx.Where(
		"expo_push_token = ? OR fcm_token = ? OR web_push_endpoint = ?",
		target, target, target,
	).Delete(&model.StaffDevice{}).Error
}
