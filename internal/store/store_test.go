package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"villa-ops-backend/internal/apperr"
	"villa-ops-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

func TestGormStore_AppendProgressLog(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "progress_logs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("log-1"))
	mock.ExpectCommit()

	err := s.AppendProgressLog(context.Background(), &model.ProgressLog{
		ID:        "log-1",
		JobID:     "J1",
		StaffID:   "S1",
		Stage:     model.StageOnSite,
		Progress:  40,
		DelayRisk: 12,
		Source:    "mobile_app",
		CreatedAt: time.Now(),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_UpsertProgress_MergeColumns(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	// The conflict action must overwrite the base columns plus only the
	// optional columns this report supplied.
	mock.ExpectQuery(`INSERT INTO "job_progresses".*ON CONFLICT \("job_id"\) DO UPDATE SET.*"notes"=.*`).
		WillReturnRows(sqlmock.NewRows([]string{"job_id"}).AddRow("J1"))
	mock.ExpectCommit()

	err := s.UpsertProgress(context.Background(), &model.JobProgress{
		JobID:              "J1",
		StaffID:            "S1",
		CurrentStage:       model.StageOnSite,
		ProgressPercentage: 40,
		DelayRisk:          12,
		LastUpdate:         time.Now(),
		Notes:              "spare keys under the mat",
	}, []string{ColNotes})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetProgress_NotFound(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "job_progresses"`)).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"job_id"}))

	_, err := s.GetProgress(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SetJobStatus(t *testing.T) {
	now := time.Now()
	completed := now

	testCases := []struct {
		name        string
		completedAt *time.Time
		argCount    int
	}{
		{"in progress, no completion time", nil, 3},
		{"completed with timestamp", &completed, 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			s := NewGormStore(gormDB)

			args := make([]driver.Value, tc.argCount)
			for i := range args {
				args[i] = Any{}
			}

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE "jobs" SET`)).
				WithArgs(args...).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			err := s.SetJobStatus(context.Background(), "J1", model.JobStatusCompleted, tc.completedAt, now)
			assert.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_DeleteStaffDeviceTarget(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "staff_devices" WHERE expo_push_token = $1 OR fcm_token = $2 OR web_push_endpoint = $3`)).
		WithArgs("tok", "tok", "tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.DeleteStaffDeviceTarget(context.Background(), "tok")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
