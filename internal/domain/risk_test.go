package domain

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedJitter(v int) Jitter {
	return func(int) int { return v }
}

func TestHeuristicPredictor_BaseScore(t *testing.T) {
	p := NewHeuristicPredictor(nil)

	tests := []struct {
		name     string
		location string
		typ      IncidentType
		expected int
	}{
		{"hazmat in metro clamps", "Recife", TypeHazardousMaterials, 100},
		{"hazmat midsize", "Caruaru", TypeHazardousMaterials, 100},
		{"hazmat elsewhere", "Exu", TypeHazardousMaterials, 95},
		{"fire in metro", "Olinda", TypeFire, 90},
		{"fire midsize", "Petrolina", TypeFire, 85},
		{"pre-hospital elsewhere", "Floresta", TypePreHospitalCare, 75},
		{"rescue in metro", "Jaboatão dos Guararapes", TypeRescue, 75},
		{"inspection elsewhere", "Anywhere", TypeInspection, 65},
		{"false alarm overrides base", "Anywhere", TypeFalseAlarm, 5},
		{"false alarm in metro", "Recife", TypeFalseAlarm, 15},
		{"unknown type", "Anywhere", IncidentType("Flood"), 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.BaseScore(tt.location, tt.typ))
		})
	}
}

func TestHeuristicPredictor_Predict(t *testing.T) {
	fixedTime := time.Date(2025, 12, 14, 10, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	t.Run("hazmat in Recife clamps to 100", func(t *testing.T) {
		pred := NewHeuristicPredictor(NoJitter).Predict("Recife", TypeHazardousMaterials)

		assert.Equal(t, 100, pred.Score)
		assert.Equal(t, LabelIncident, pred.Label)
		assert.Equal(t, AdvisoryCritical, pred.Advisory)
		assert.Equal(t, "Recife", pred.Location)
		assert.Equal(t, TypeHazardousMaterials, pred.IncidentType)
		assert.Equal(t, fixedTime, pred.PredictedAt)
	})

	t.Run("false alarm reports hoax confidence regardless of location", func(t *testing.T) {
		for _, loc := range []string{"Anywhere", "Recife", "Caruaru", ""} {
			pred := NewHeuristicPredictor(fixedJitter(5)).Predict(loc, TypeFalseAlarm)

			assert.Equal(t, 95, pred.Score, loc)
			assert.Equal(t, LabelHoax, pred.Label, loc)
			assert.Equal(t, AdvisoryHoax, pred.Advisory, loc)
		}
	})

	t.Run("positive jitter is clamped at 100", func(t *testing.T) {
		pred := NewHeuristicPredictor(fixedJitter(5)).Predict("Recife", TypeHazardousMaterials)
		assert.Equal(t, 100, pred.Score)
	})

	t.Run("negative jitter lowers the score", func(t *testing.T) {
		pred := NewHeuristicPredictor(fixedJitter(-5)).Predict("Recife", TypeHazardousMaterials)
		assert.Equal(t, 95, pred.Score)
	})

	t.Run("score floored at 10", func(t *testing.T) {
		pred := NewHeuristicPredictor(fixedJitter(-80)).Predict("Anywhere", TypeInspection)
		assert.Equal(t, 10, pred.Score)
		assert.Equal(t, LabelIncident, pred.Label)
	})
}

func TestHeuristicPredictor_RandomJitterBounds(t *testing.T) {
	p := NewHeuristicPredictor(RandomJitter(NewSource(testSeed)))

	seen := make(map[int]struct{})
	for range 2000 {
		pred := p.Predict("Anywhere", TypeInspection)
		require.GreaterOrEqual(t, pred.Score, 60)
		require.LessOrEqual(t, pred.Score, 70)
		seen[pred.Score] = struct{}{}
	}
	assert.Len(t, seen, 11, "jitter should cover [-5, +5]")
}

func TestRandomJitter_ConcurrentUse(t *testing.T) {
	jitter := RandomJitter(NewSource(testSeed))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				v := jitter(5)
				assert.GreaterOrEqual(t, v, -5)
				assert.LessOrEqual(t, v, 5)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, jitter(0))
}

func TestDeriveAdvisory(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		label    Label
		expected Advisory
	}{
		{"hoax wins over score", 95, LabelHoax, AdvisoryHoax},
		{"critical above 85", 86, LabelIncident, AdvisoryCritical},
		{"85 is high", 85, LabelIncident, AdvisoryHigh},
		{"high above 65", 66, LabelIncident, AdvisoryHigh},
		{"65 is moderate", 65, LabelIncident, AdvisoryModerate},
		{"low score is moderate", 10, LabelIncident, AdvisoryModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveAdvisory(tt.score, tt.label))
		})
	}
}

func TestPredictorInterface(t *testing.T) {
	var p Predictor = NewHeuristicPredictor(NoJitter)
	// 65 base, +10 pre-hospital care, +5 mid-size city.
	assert.Equal(t, 80, p.Predict("Caruaru", TypePreHospitalCare).Score)
}
