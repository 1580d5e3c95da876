package dashboard

import (
	"time"

	"github.com/couchcryptid/fireops-dashboard-service/internal/domain"
)

// ChartKind tells the client how to draw a series.
type ChartKind string

const (
	KindHistogram ChartKind = "histogram"
	KindPie       ChartKind = "pie"
	KindScatter   ChartKind = "scatter"
	KindBar       ChartKind = "bar"
)

// View is everything the dashboard page shows for one filter selection.
type View struct {
	Seed            int64                `json:"seed"`
	GeneratedAt     time.Time            `json:"generated_at"`
	Filters         []domain.StageResult `json:"filters"`
	KPIs            domain.KPIs          `json:"kpis"`
	Map             domain.MapView       `json:"map"`
	AgeDistribution BucketChart          `json:"age_distribution"`
	TypeBreakdown   BucketChart          `json:"type_breakdown"`
	Clusters        ScatterChart         `json:"clusters"`
	Factors         FactorChart          `json:"factors"`
	Placeholder     string               `json:"placeholder,omitempty"`
}

// BucketChart is a labelled count series.
type BucketChart struct {
	Kind    ChartKind       `json:"kind"`
	Buckets []domain.Bucket `json:"buckets"`
}

// NewBucketChart wraps buckets, never returning a nil series.
func NewBucketChart(kind ChartKind, buckets []domain.Bucket) BucketChart {
	if buckets == nil {
		buckets = []domain.Bucket{}
	}
	return BucketChart{Kind: kind, Buckets: buckets}
}

// ScatterChart plots risk against longitude, coloured by cluster.
type ScatterChart struct {
	Kind        ChartKind             `json:"kind"`
	Points      []domain.ClusterPoint `json:"points"`
	Counts      []domain.Bucket       `json:"counts"`
	Placeholder string                `json:"placeholder,omitempty"`
}

// NewScatterChart builds the cluster scatter for records.
func NewScatterChart(records []domain.Record) ScatterChart {
	c := ScatterChart{
		Kind:   KindScatter,
		Points: domain.ClusterScatter(records),
		Counts: domain.ClusterCounts(records),
	}
	if len(records) == 0 {
		c.Placeholder = domain.EmptyViewPlaceholder
	}
	return c
}

// FactorChart is the horizontal bar of determining factors.
type FactorChart struct {
	Kind    ChartKind             `json:"kind"`
	Factors []domain.FactorWeight `json:"factors"`
}

// CatalogView lists the selectable values.
type CatalogView struct {
	IncidentTypes []domain.IncidentType `json:"incident_types"`
	Cities        []string              `json:"cities"`
	Regions       []string              `json:"regions"`
	Statuses      []domain.Status       `json:"statuses"`
	AgeBrackets   []domain.AgeBracket   `json:"age_brackets"`
	Clusters      []domain.Cluster      `json:"clusters"`
	RiskMin       int                   `json:"risk_min"`
	RiskMax       int                   `json:"risk_max"`
	Bounds        domain.Bounds         `json:"bounds"`
}
