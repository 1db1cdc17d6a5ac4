package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"villa-ops-backend/internal/model"
)

func clockAt(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 9, hour, 30, 0, 0, time.UTC)
	}
}

func zeroNoise() float64 { return 0 }

func TestScore_BehindSchedule(t *testing.T) {
	testCases := []struct {
		name     string
		stage    model.JobStage
		progress int
		hour     int
		expected int
	}{
		{"on site, far behind", model.StageOnSite, 10, 10, 60},
		{"on site, on schedule", model.StageOnSite, 40, 10, 0},
		{"on site, ahead of schedule", model.StageOnSite, 80, 10, 0},
		{"not started, nothing expected", model.StageNotStarted, 0, 10, 0},
		{"traveling, slightly behind", model.StageTraveling, 15, 10, 10},
		{"quality check, behind", model.StageQualityCheck, 50, 10, 60},
		{"completed with no progress clamps at 100", model.StageCompleted, 0, 10, 100},
		{"peak window adds 10", model.StageOnSite, 10, 15, 70},
		{"peak window lower bound", model.StageOnSite, 10, 14, 70},
		{"peak window upper bound", model.StageOnSite, 10, 17, 70},
		{"just before peak window", model.StageOnSite, 10, 13, 60},
		{"just after peak window", model.StageOnSite, 10, 18, 60},
		{"peak alone when on schedule", model.StageInProgress, 60, 16, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScorerWith(clockAt(tc.hour), zeroNoise, 14, 17)
			assert.Equal(t, tc.expected, s.Score(tc.stage, tc.progress))
		})
	}
}

func TestScore_MonotonicInProgress(t *testing.T) {
	s := NewScorerWith(clockAt(9), zeroNoise, 14, 17)

	prev := 101
	for p := 0; p <= ExpectedProgress(model.StageInProgress); p++ {
		score := s.Score(model.StageInProgress, p)
		assert.LessOrEqual(t, score, prev, "risk must not increase as progress grows (p=%d)", p)
		prev = score
	}
}

func TestScore_Bounds(t *testing.T) {
	fullNoise := func() float64 { return 0.999 }

	for _, stage := range []model.JobStage{
		model.StageNotStarted, model.StageTraveling, model.StageOnSite,
		model.StageInProgress, model.StageQualityCheck, model.StageCompleted,
	} {
		for _, p := range []int{0, 25, 50, 75, 100} {
			for _, noise := range []Noise{zeroNoise, fullNoise} {
				s := NewScorerWith(clockAt(15), noise, 14, 17)
				score := s.Score(stage, p)
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 100)
			}
		}
	}
}

func TestScore_NoiseIsBounded(t *testing.T) {
	// Base risk 60 at a non-peak hour; the perturbation stays in [0,20),
	// so after rounding the score lands in [60,80].
	s := NewScorer(14, 17)
	s.now = clockAt(9)

	for i := 0; i < 200; i++ {
		score := s.Score(model.StageOnSite, 10)
		assert.GreaterOrEqual(t, score, 60)
		assert.LessOrEqual(t, score, 80)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-5, 0, 100))
	assert.Equal(t, 100, Clamp(150, 0, 100))
	assert.Equal(t, 42, Clamp(42, 0, 100))
}
