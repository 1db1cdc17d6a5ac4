package risk

import (
	"math"
	"math/rand"
	"time"

	"villa-ops-backend/internal/model"
)

// expectedProgress is the percentage a job is expected to have reached by
// each stage. Falling behind it is what drives the risk score.
var expectedProgress = map[model.JobStage]int{
	model.StageNotStarted:   0,
	model.StageTraveling:    20,
	model.StageOnSite:       40,
	model.StageInProgress:   60,
	model.StageQualityCheck: 80,
	model.StageCompleted:    100,
}

// ExpectedProgress returns the expected percentage for a stage.
func ExpectedProgress(stage model.JobStage) int {
	return expectedProgress[stage]
}

// Noise returns a perturbation in [0,1). Injected so tests can pin it to 0;
// production uses a real PRNG.
type Noise func() float64

// Scorer computes delay-risk scores. The clock and the noise source are
// injectable for deterministic tests.
type Scorer struct {
	now       func() time.Time
	noise     Noise
	peakStart int
	peakEnd   int
}

// NewScorer builds a production scorer: real clock, math/rand noise.
func NewScorer(peakStart, peakEnd int) *Scorer {
	return &Scorer{
		now:       time.Now,
		noise:     rand.Float64,
		peakStart: peakStart,
		peakEnd:   peakEnd,
	}
}

// NewScorerWith builds a scorer with an explicit clock and noise source.
func NewScorerWith(now func() time.Time, noise Noise, peakStart, peakEnd int) *Scorer {
	return &Scorer{now: now, noise: noise, peakStart: peakStart, peakEnd: peakEnd}
}

// Score estimates how likely the job is to finish late, in [0,100].
//
// Two risk points per percentage point the worker is behind the expected
// progress for their stage, +10 inside the afternoon peak window, plus a
// perturbation in [0,20) modelling real-world noise. Callers must not assume
// reproducibility unless they injected a fixed noise source.
func (s *Scorer) Score(stage model.JobStage, progress int) int {
	gap := expectedProgress[stage] - progress
	score := float64(max(0, gap*2))

	hour := s.now().Hour()
	if hour >= s.peakStart && hour <= s.peakEnd {
		score += 10
	}

	score += s.noise() * 20

	rounded := int(math.Round(score))
	return Clamp(rounded, 0, 100)
}

// Clamp bounds v into [lo,hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
