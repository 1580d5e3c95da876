package domain

// Bucket is one bar or slice of a categorical chart.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AgeDistribution counts records per age bracket, in bracket order, zero
// counts included.
func AgeDistribution(records []Record) []Bucket {
	counts := make(map[AgeBracket]int)
	for _, r := range records {
		counts[r.AgeBracket]++
	}
	out := make([]Bucket, 0, len(AgeBrackets()))
	for _, a := range AgeBrackets() {
		out = append(out, Bucket{Label: string(a), Count: counts[a]})
	}
	return out
}

// TypeBreakdown counts records per incident type, omitting types with no
// records.
func TypeBreakdown(records []Record) []Bucket {
	counts := make(map[IncidentType]int)
	for _, r := range records {
		counts[r.Type]++
	}
	out := make([]Bucket, 0)
	for _, t := range IncidentTypes() {
		if counts[t] == 0 {
			continue
		}
		out = append(out, Bucket{Label: string(t), Count: counts[t]})
	}
	return out
}

// ClusterCounts counts records per risk band, in band order.
func ClusterCounts(records []Record) []Bucket {
	counts := make(map[Cluster]int)
	for _, r := range records {
		counts[r.Cluster]++
	}
	out := make([]Bucket, 0, len(Clusters()))
	for _, c := range Clusters() {
		out = append(out, Bucket{Label: string(c), Count: counts[c]})
	}
	return out
}

// ClusterPoint places a record on the risk × longitude scatter.
type ClusterPoint struct {
	ID           string  `json:"id"`
	Risk         int     `json:"risk"`
	Lon          float64 `json:"lon"`
	Cluster      Cluster `json:"cluster"`
	Neighborhood string  `json:"neighborhood"`
}

// ClusterScatter returns one point per record.
func ClusterScatter(records []Record) []ClusterPoint {
	out := make([]ClusterPoint, 0, len(records))
	for _, r := range records {
		out = append(out, ClusterPoint{
			ID:           r.ID,
			Risk:         r.Risk,
			Lon:          r.Geo.Lon,
			Cluster:      r.Cluster,
			Neighborhood: r.Neighborhood,
		})
	}
	return out
}

// FactorWeight is the relative influence of one factor on incident type.
type FactorWeight struct {
	Factor string  `json:"factor"`
	Weight float64 `json:"weight"`
}

// DeterminingFactors returns the fixed factor weights, lowest first.
func DeterminingFactors() []FactorWeight {
	return []FactorWeight{
		{Factor: "Urban infrastructure", Weight: 0.20},
		{Factor: "Weather / rain", Weight: 0.40},
		{Factor: "Time of day", Weight: 0.70},
		{Factor: "Location (neighborhood)", Weight: 0.85},
	}
}
