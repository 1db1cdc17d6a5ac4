package assignment

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"

	"villa-ops-backend/internal/apperr"
	"villa-ops-backend/internal/model"
	"villa-ops-backend/internal/store"
)

// Defaults applied when a creation request omits optional fields.
const (
	defaultStaffName    = "Unknown Staff"
	defaultPropertyName = "Unknown Property"
	defaultETA          = 30
	defaultDistance     = 5.0
	defaultLat          = 9.7500
	defaultLng          = 100.0000
)

const earthRadiusKm = 6371.0

// Rand is the slice of math/rand the generator uses, injectable so tests can
// fix the sequence.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Service produces staff-to-job assignments and manages their lifecycle.
type Service struct {
	store store.Store
	rnd   Rand
	now   func() time.Time
}

// NewService creates a production service with a seeded PRNG.
func NewService(s store.Store) *Service {
	return &Service{
		store: s,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

// NewServiceWith creates a service with an explicit random source and clock.
func NewServiceWith(s store.Store, rnd Rand, now func() time.Time) *Service {
	return &Service{store: s, rnd: rnd, now: now}
}

// Stats aggregates a generated assignment set.
type Stats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByPriority map[string]int `json:"byPriority"`
	AverageETA int            `json:"averageEta"`
}

var generatedStatuses = []string{
	model.AssignmentAssigned,
	model.AssignmentEnRoute,
	model.AssignmentArrived,
	model.AssignmentCompleted,
}

var generatedPriorities = []string{
	model.PriorityLow,
	model.PriorityMedium,
	model.PriorityHigh,
	model.PriorityUrgent,
}

// ListAssignments returns 4-8 generated assignments built by pairing the
// staff and property rosters, plus aggregate stats over the returned set.
func (s *Service) ListAssignments(_ context.Context) ([]model.JobAssignment, Stats) {
	count := 4 + s.rnd.Intn(5)
	now := s.now()

	assignments := make([]model.JobAssignment, 0, count)
	for i := 0; i < count; i++ {
		staff := staffRoster[i%len(staffRoster)]
		prop := propertyRoster[i%len(propertyRoster)]
		status := generatedStatuses[s.rnd.Intn(len(generatedStatuses))]

		assignments = append(assignments, model.JobAssignment{
			ID:           uuid.NewString(),
			StaffID:      staff.ID,
			StaffName:    staff.Name,
			PropertyID:   prop.ID,
			PropertyName: prop.Name,
			Lat:          prop.Lat,
			Lng:          prop.Lng,
			ETA:          s.etaForStatus(status),
			Status:       status,
			Distance:     math.Round((1+s.rnd.Float64()*14)*10) / 10,
			JobType:      jobTypes[s.rnd.Intn(len(jobTypes))],
			Priority:     generatedPriorities[s.rnd.Intn(len(generatedPriorities))],
			AssignedAt:   now.Add(-time.Duration(s.rnd.Intn(120)) * time.Minute),
			UpdatedAt:    now,
		})
	}

	return assignments, buildStats(assignments)
}

// etaForStatus derives the ETA from the status: on-site and finished jobs
// have none, en-route jobs are close, the rest span the full window.
func (s *Service) etaForStatus(status string) int {
	switch status {
	case model.AssignmentArrived, model.AssignmentCompleted:
		return 0
	case model.AssignmentEnRoute:
		return 5 + s.rnd.Intn(21)
	default:
		return 5 + s.rnd.Intn(46)
	}
}

func buildStats(assignments []model.JobAssignment) Stats {
	stats := Stats{
		Total:      len(assignments),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}
	var etaSum int
	for _, a := range assignments {
		stats.ByStatus[a.Status]++
		stats.ByPriority[a.Priority]++
		etaSum += a.ETA
	}
	if len(assignments) > 0 {
		stats.AverageETA = int(math.Round(float64(etaSum) / float64(len(assignments))))
	}
	return stats
}

// CreateInput is a request to create a real assignment.
type CreateInput struct {
	StaffID      string   `json:"staffId"`
	PropertyID   string   `json:"propertyId"`
	JobType      string   `json:"jobType"`
	JobID        string   `json:"jobId,omitempty"`
	StaffName    string   `json:"staffName,omitempty"`
	PropertyName string   `json:"propertyName,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
	ETA          *int     `json:"eta,omitempty"`
	Distance     *float64 `json:"distance,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	StaffLat     *float64 `json:"staffLat,omitempty"`
	StaffLng     *float64 `json:"staffLng,omitempty"`
}

// CreateAssignment persists a new assignment in the assigned state. Absent
// optionals fall back to fixed defaults; when both the staff position and
// the property position are known, distance comes from the haversine
// great-circle instead of the default.
func (s *Service) CreateAssignment(ctx context.Context, in CreateInput) (*model.JobAssignment, error) {
	if in.StaffID == "" {
		return nil, apperr.Validationf("staffId is required")
	}
	if in.PropertyID == "" {
		return nil, apperr.Validationf("propertyId is required")
	}
	if in.JobType == "" {
		return nil, apperr.Validationf("jobType is required")
	}
	if in.Priority != "" && !model.ValidPriority(in.Priority) {
		return nil, apperr.Validationf("unknown priority %q", in.Priority)
	}

	a := &model.JobAssignment{
		ID:           uuid.NewString(),
		JobID:        in.JobID,
		StaffID:      in.StaffID,
		StaffName:    defaultStaffName,
		PropertyID:   in.PropertyID,
		PropertyName: defaultPropertyName,
		Lat:          defaultLat,
		Lng:          defaultLng,
		ETA:          defaultETA,
		Status:       model.AssignmentAssigned,
		Distance:     defaultDistance,
		JobType:      in.JobType,
		Priority:     model.PriorityMedium,
		AssignedAt:   s.now(),
		UpdatedAt:    s.now(),
	}
	if in.StaffName != "" {
		a.StaffName = in.StaffName
	}
	if in.PropertyName != "" {
		a.PropertyName = in.PropertyName
	}
	if in.Lat != nil && in.Lng != nil {
		a.Lat = *in.Lat
		a.Lng = *in.Lng
	}
	if in.ETA != nil {
		a.ETA = *in.ETA
	}
	if in.Priority != "" {
		a.Priority = in.Priority
	}

	switch {
	case in.Distance != nil:
		a.Distance = *in.Distance
	case in.StaffLat != nil && in.StaffLng != nil:
		km := haversineKm(*in.StaffLat, *in.StaffLng, a.Lat, a.Lng)
		a.Distance = math.Round(km*10) / 10
	}

	if err := s.store.CreateAssignment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// StatusAck acknowledges a status transition.
type StatusAck struct {
	AssignmentID string    `json:"assignmentId"`
	Status       string    `json:"status"`
	ETA          int       `json:"eta"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UpdateAssignmentStatus moves an assignment forward through its lifecycle.
// Unknown statuses and backward transitions are rejected; the ETA is forced
// to zero once the staff member has arrived.
func (s *Service) UpdateAssignmentStatus(ctx context.Context, id, status string, eta *int) (*StatusAck, error) {
	if id == "" {
		return nil, apperr.Validationf("assignmentId is required")
	}
	newRank := model.AssignmentStatusRank(status)
	if newRank < 0 {
		return nil, apperr.Validationf("unknown status %q", status)
	}

	current, err := s.store.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if newRank < model.AssignmentStatusRank(current.Status) {
		return nil, apperr.Validationf("cannot move assignment from %q back to %q", current.Status, status)
	}

	newETA := current.ETA
	if eta != nil {
		newETA = *eta
	}
	if status == model.AssignmentArrived || status == model.AssignmentCompleted {
		newETA = 0
	}

	now := s.now()
	if err := s.store.UpdateAssignmentStatus(ctx, id, status, newETA, now); err != nil {
		return nil, err
	}
	return &StatusAck{AssignmentID: id, Status: status, ETA: newETA, UpdatedAt: now}, nil
}

// haversineKm is the great-circle distance between two coordinates in km.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * earthRadiusKm
}
