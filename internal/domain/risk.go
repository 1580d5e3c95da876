package domain

import (
	"math/rand"
	"sync"
	"time"
)

// Label tells how to read a prediction's score.
type Label string

const (
	// LabelIncident means Score is the estimated incident risk.
	LabelIncident Label = "Incident"
	// LabelHoax means Score is the confidence that the report is a hoax.
	LabelHoax Label = "Hoax"
)

// Advisory is the alert level shown next to a prediction.
type Advisory string

const (
	AdvisoryHoax     Advisory = "hoax"
	AdvisoryCritical Advisory = "critical"
	AdvisoryHigh     Advisory = "high"
	AdvisoryModerate Advisory = "moderate"
)

// Prediction is the outcome of scoring a location and incident type.
type Prediction struct {
	Location     string       `json:"location"`
	IncidentType IncidentType `json:"incident_type"`
	Score        int          `json:"score"`
	Label        Label        `json:"label"`
	Advisory     Advisory     `json:"advisory"`
	PredictedAt  time.Time    `json:"predicted_at"`
}

// PredictionEvent is a prediction published to downstream consumers.
type PredictionEvent struct {
	ID string `json:"id"`
	Prediction
}

// Predictor scores a (location, incident type) pair.
type Predictor interface {
	Predict(location string, incidentType IncidentType) Prediction
}

// Jitter returns a perturbation in [-maxAbs, maxAbs].
type Jitter func(maxAbs int) int

// NoJitter always returns 0.
func NoJitter(int) int { return 0 }

// RandomJitter draws uniform perturbations from rng. The returned func is
// safe for concurrent use.
func RandomJitter(rng *rand.Rand) Jitter {
	var mu sync.Mutex
	return func(maxAbs int) int {
		if maxAbs <= 0 {
			return 0
		}
		mu.Lock()
		defer mu.Unlock()
		return rng.Intn(2*maxAbs+1) - maxAbs
	}
}

const (
	baseRisk          = 65
	hoaxBaseRisk      = 5
	hoaxConfidence    = 95
	jitterRange       = 5
	minIncidentScore  = 10
	metroAdjustment   = 10
	midsizeAdjustment = 5
)

var (
	metroCities   = map[string]struct{}{"Recife": {}, "Olinda": {}, "Jaboatão dos Guararapes": {}}
	midsizeCities = map[string]struct{}{"Petrolina": {}, "Caruaru": {}}
)

// HeuristicPredictor is a fixed rule table with a small random perturbation.
type HeuristicPredictor struct {
	jitter Jitter
}

// NewHeuristicPredictor creates a predictor. A nil jitter means NoJitter.
func NewHeuristicPredictor(jitter Jitter) *HeuristicPredictor {
	if jitter == nil {
		jitter = NoJitter
	}
	return &HeuristicPredictor{jitter: jitter}
}

// BaseScore applies the type and location adjustments and clamps to
// [0,100]. It is deterministic.
func (p *HeuristicPredictor) BaseScore(location string, incidentType IncidentType) int {
	risk := baseRisk

	switch incidentType {
	case TypeHazardousMaterials:
		risk += 30
	case TypeFire:
		risk += 15
	case TypeFalseAlarm:
		risk = hoaxBaseRisk
	case TypePreHospitalCare:
		risk += 10
	}

	if _, ok := metroCities[location]; ok {
		risk += metroAdjustment
	} else if _, ok := midsizeCities[location]; ok {
		risk += midsizeAdjustment
	}

	return ClampRisk(risk)
}

// Predict scores the pair. False alarms return the fixed hoax confidence
// instead of the computed risk; every other type gets the clamped risk plus
// jitter, floored at 10.
func (p *HeuristicPredictor) Predict(location string, incidentType IncidentType) Prediction {
	risk := p.BaseScore(location, incidentType)

	pred := Prediction{
		Location:     location,
		IncidentType: incidentType,
		PredictedAt:  clock.Now(),
	}

	if incidentType == TypeFalseAlarm {
		pred.Score = hoaxConfidence
		pred.Label = LabelHoax
	} else {
		pred.Score = clamp(risk+p.jitter(jitterRange), minIncidentScore, MaxRisk)
		pred.Label = LabelIncident
	}
	pred.Advisory = DeriveAdvisory(pred.Score, pred.Label)
	return pred
}

// DeriveAdvisory maps a score and label to an alert level. The thresholds
// are strict, so 85 is high and 65 is moderate.
func DeriveAdvisory(score int, label Label) Advisory {
	switch {
	case label == LabelHoax:
		return AdvisoryHoax
	case score > 85:
		return AdvisoryCritical
	case score > 65:
		return AdvisoryHigh
	default:
		return AdvisoryModerate
	}
}
