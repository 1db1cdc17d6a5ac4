package assignment

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"villa-ops-backend/internal/apperr"
	"villa-ops-backend/internal/model"
	"villa-ops-backend/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gormDB.AutoMigrate(&model.JobAssignment{}))
	return store.NewGormStore(gormDB)
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, seed int64) (*Service, store.Store) {
	s := newTestStore(t)
	return NewServiceWith(s, rand.New(rand.NewSource(seed)), fixedClock), s
}

func TestListAssignments_Invariants(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		svc, _ := newTestService(t, seed)
		assignments, stats := svc.ListAssignments(context.Background())

		assert.GreaterOrEqual(t, len(assignments), 4)
		assert.LessOrEqual(t, len(assignments), 8)

		for _, a := range assignments {
			switch a.Status {
			case model.AssignmentArrived, model.AssignmentCompleted:
				assert.Zero(t, a.ETA, "arrived/completed assignments carry no ETA")
			case model.AssignmentEnRoute:
				assert.GreaterOrEqual(t, a.ETA, 5)
				assert.LessOrEqual(t, a.ETA, 25)
			default:
				assert.GreaterOrEqual(t, a.ETA, 5)
				assert.LessOrEqual(t, a.ETA, 50)
			}

			assert.GreaterOrEqual(t, a.Distance, 1.0)
			assert.LessOrEqual(t, a.Distance, 15.0)
			// One decimal place.
			assert.InDelta(t, a.Distance, math.Round(a.Distance*10)/10, 1e-9)

			assert.NotEmpty(t, a.ID)
			assert.NotEmpty(t, a.StaffName)
			assert.NotEmpty(t, a.PropertyName)
			assert.True(t, model.ValidPriority(a.Priority))
		}

		assert.Equal(t, len(assignments), stats.Total)
		var statusSum, prioritySum, etaSum int
		for _, n := range stats.ByStatus {
			statusSum += n
		}
		for _, n := range stats.ByPriority {
			prioritySum += n
		}
		for _, a := range assignments {
			etaSum += a.ETA
		}
		assert.Equal(t, stats.Total, statusSum)
		assert.Equal(t, stats.Total, prioritySum)
		assert.Equal(t, int(math.Round(float64(etaSum)/float64(stats.Total))), stats.AverageETA)
	}
}

func TestCreateAssignment_Validation(t *testing.T) {
	svc, s := newTestService(t, 1)
	ctx := context.Background()

	testCases := []struct {
		name string
		in   CreateInput
	}{
		{"missing staffId", CreateInput{PropertyID: "P1", JobType: "cleaning"}},
		{"missing propertyId", CreateInput{StaffID: "S1", JobType: "cleaning"}},
		{"missing jobType", CreateInput{StaffID: "S1", PropertyID: "P1"}},
		{"unknown priority", CreateInput{StaffID: "S1", PropertyID: "P1", JobType: "cleaning", Priority: "extreme"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateAssignment(ctx, tc.in)
			assert.True(t, apperr.IsValidation(err))
		})
	}

	var count int64
	s.DB().Model(&model.JobAssignment{}).Count(&count)
	assert.Zero(t, count, "failed validations must create no records")
}

func TestCreateAssignment_Defaults(t *testing.T) {
	svc, s := newTestService(t, 1)

	created, err := svc.CreateAssignment(context.Background(), CreateInput{
		StaffID: "S1", PropertyID: "P1", JobType: "cleaning",
	})
	require.NoError(t, err)

	assert.Equal(t, model.AssignmentAssigned, created.Status)
	assert.Equal(t, "Unknown Staff", created.StaffName)
	assert.Equal(t, "Unknown Property", created.PropertyName)
	assert.Equal(t, 30, created.ETA)
	assert.Equal(t, 5.0, created.Distance)
	assert.Equal(t, model.PriorityMedium, created.Priority)
	assert.Equal(t, fixedClock(), created.AssignedAt)
	assert.NotEmpty(t, created.ID)

	var stored model.JobAssignment
	require.NoError(t, s.DB().First(&stored, "id = ?", created.ID).Error)
	assert.Equal(t, created.StaffID, stored.StaffID)
}

func TestCreateAssignment_HaversineDistance(t *testing.T) {
	svc, _ := newTestService(t, 1)

	propLat, propLng := 9.7350, 100.0136
	staffLat, staffLng := 9.7601, 100.0254

	created, err := svc.CreateAssignment(context.Background(), CreateInput{
		StaffID: "S1", PropertyID: "P1", JobType: "maintenance",
		Lat: &propLat, Lng: &propLng,
		StaffLat: &staffLat, StaffLng: &staffLng,
	})
	require.NoError(t, err)

	// Roughly 3 km between the two points, rounded to one decimal.
	assert.InDelta(t, 3.1, created.Distance, 0.3)
	assert.InDelta(t, created.Distance, math.Round(created.Distance*10)/10, 1e-9)
}

func TestUpdateAssignmentStatus(t *testing.T) {
	svc, _ := newTestService(t, 1)
	ctx := context.Background()

	created, err := svc.CreateAssignment(ctx, CreateInput{
		StaffID: "S1", PropertyID: "P1", JobType: "cleaning",
	})
	require.NoError(t, err)

	eta := 12
	ack, err := svc.UpdateAssignmentStatus(ctx, created.ID, model.AssignmentEnRoute, &eta)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentEnRoute, ack.Status)
	assert.Equal(t, 12, ack.ETA)

	// Arrival forces the ETA to zero even when one is supplied.
	eta = 7
	ack, err = svc.UpdateAssignmentStatus(ctx, created.ID, model.AssignmentArrived, &eta)
	require.NoError(t, err)
	assert.Zero(t, ack.ETA)

	// Backward transitions are rejected.
	_, err = svc.UpdateAssignmentStatus(ctx, created.ID, model.AssignmentAssigned, nil)
	assert.True(t, apperr.IsValidation(err))

	// Unknown statuses are rejected.
	_, err = svc.UpdateAssignmentStatus(ctx, created.ID, "teleported", nil)
	assert.True(t, apperr.IsValidation(err))

	// Unknown assignments surface not-found, not a validation error.
	_, err = svc.UpdateAssignmentStatus(ctx, "no-such-id", model.AssignmentEnRoute, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
