package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
)

// NewSource returns a deterministic random source for seed.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // synthetic demo data
}

// GenerateSeeded draws n records from a fresh source seeded with seed.
func GenerateSeeded(n int, seed int64, cat Catalog) Dataset {
	ds := Generate(n, NewSource(seed), cat)
	ds.Seed = seed
	return ds
}

// Generate draws n independent records from cat using rng. Two calls with
// sources in the same state produce identical records. n <= 0 yields an
// empty dataset.
func Generate(n int, rng *rand.Rand, cat Catalog) Dataset {
	if n < 0 {
		n = 0
	}
	records := make([]Record, n)
	for i := range records {
		records[i] = drawRecord(i, rng, cat)
	}
	return Dataset{
		Records:     records,
		GeneratedAt: clock.Now(),
	}
}

func drawRecord(index int, rng *rand.Rand, cat Catalog) Record {
	city := pick(rng, cat.Cities)
	neighborhood := pick(rng, cat.Neighborhoods)
	incidentType := pick(rng, cat.Types)
	status := pick(rng, cat.Statuses)
	age := pickWeighted(rng, cat.AgeBrackets, cat.AgeWeights)
	risk := ClampRisk(cat.RiskMin + rng.Intn(max(cat.RiskMax-cat.RiskMin+1, 1)))
	geo := Geo{
		Lat: uniform(rng, cat.Bounds.MinLat, cat.Bounds.MaxLat),
		Lon: uniform(rng, cat.Bounds.MinLon, cat.Bounds.MaxLon),
	}

	return Record{
		ID:           generateID(index, city, neighborhood, incidentType, geo),
		City:         city,
		Neighborhood: neighborhood,
		Type:         incidentType,
		Status:       status,
		AgeBracket:   age,
		Risk:         risk,
		Geo:          geo,
		Region:       cat.Regions.Lookup(city),
		Cluster:      DeriveCluster(risk),
	}
}

func pick[T any](rng *rand.Rand, values []T) T {
	var zero T
	if len(values) == 0 {
		return zero
	}
	return values[rng.Intn(len(values))]
}

// pickWeighted draws from values with the parallel weights. Falls back to a
// uniform draw when the weights do not line up with the values.
func pickWeighted[T any](rng *rand.Rand, values []T, weights []float64) T {
	if len(weights) != len(values) {
		return pick(rng, values)
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	x := rng.Float64() * total
	for i, w := range weights {
		if x < w {
			return values[i]
		}
		x -= w
	}
	return values[len(values)-1]
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// generateID produces a deterministic ID from the record's drawn fields so a
// regenerated dataset carries the same IDs.
func generateID(index int, city, neighborhood string, incidentType IncidentType, geo Geo) string {
	input := fmt.Sprintf("%d|%s|%s|%s|%.6f|%.6f", index, city, neighborhood, incidentType, geo.Lat, geo.Lon)
	hash := sha256.Sum256([]byte(input))
	return "inc-" + hex.EncodeToString(hash[:8])
}
