package domain

// Risk score limits.
const (
	MinRisk = 0
	MaxRisk = 100
)

// ClampRisk bounds v to [MinRisk, MaxRisk].
func ClampRisk(v int) int {
	return clamp(v, MinRisk, MaxRisk)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DeriveCluster maps a risk score to its band. Lower bounds are inclusive:
//   - [0,40) low
//   - [40,65) moderate
//   - [65,85) high
//   - [85,100] critical
//
// Out-of-range scores are clamped first.
func DeriveCluster(risk int) Cluster {
	switch r := ClampRisk(risk); {
	case r < 40:
		return ClusterLow
	case r < 65:
		return ClusterModerate
	case r < 85:
		return ClusterHigh
	default:
		return ClusterCritical
	}
}

// Clusters lists the bands from lowest to highest.
func Clusters() []Cluster {
	return []Cluster{ClusterLow, ClusterModerate, ClusterHigh, ClusterCritical}
}
