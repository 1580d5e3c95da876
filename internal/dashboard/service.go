package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/couchcryptid/fireops-dashboard-service/internal/domain"
	"github.com/couchcryptid/fireops-dashboard-service/internal/observability"
	"github.com/google/uuid"
)

// ErrInvalidRequest marks caller errors such as an unknown incident type.
var ErrInvalidRequest = errors.New("invalid request")

// PredictionSink receives prediction events for downstream publishing.
type PredictionSink interface {
	Enqueue(event domain.PredictionEvent) bool
}

// Options configures a Service. Zero values fall back to the built-in
// catalog, filter defaults, and a deterministic predictor.
type Options struct {
	Catalog       domain.Catalog
	Defaults      *domain.FilterDefaults
	Predictor     domain.Predictor
	Geocoder      domain.Geocoder // nil disables map centering
	Sink          PredictionSink  // nil disables publishing
	DatasetSize   int
	DatasetSeed   int64
	ReportingDays int
}

// Service computes dashboard views over a freshly generated dataset per call
// and serves risk predictions.
type Service struct {
	catalog       domain.Catalog
	cascade       *domain.Cascade
	predictor     domain.Predictor
	geocoder      domain.Geocoder
	sink          PredictionSink
	size          int
	seed          int64
	reportingDays int
	logger        *slog.Logger
	metrics       *observability.Metrics
	ready         atomic.Bool
}

// NewService creates a Service from opts.
func NewService(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	cat := opts.Catalog
	if len(cat.Cities) == 0 {
		cat = domain.DefaultCatalog()
	}
	cascade := domain.NewCascade(cat.Regions)
	if opts.Defaults != nil {
		cascade = cascade.WithDefaults(*opts.Defaults)
	}
	predictor := opts.Predictor
	if predictor == nil {
		predictor = domain.NewHeuristicPredictor(nil)
	}
	reportingDays := opts.ReportingDays
	if reportingDays <= 0 {
		reportingDays = domain.DefaultReportingDays
	}

	return &Service{
		catalog:       cat,
		cascade:       cascade,
		predictor:     predictor,
		geocoder:      opts.Geocoder,
		sink:          opts.Sink,
		size:          opts.DatasetSize,
		seed:          opts.DatasetSeed,
		reportingDays: reportingDays,
		logger:        logger,
		metrics:       metrics,
	}
}

// dataset regenerates the seeded table. Each call returns an independent copy.
func (s *Service) dataset() domain.Dataset {
	ds := domain.GenerateSeeded(s.size, s.seed, s.catalog)
	s.metrics.DatasetRecords.Set(float64(len(ds.Records)))
	return ds
}

// Dashboard filters the dataset with sel and derives every view from the result.
func (s *Service) Dashboard(ctx context.Context, sel domain.Selection) View {
	start := domain.Now()
	ds := s.dataset()
	result := s.cascade.Apply(ds.Records, sel)

	var cities []string
	if city, ok := result.Stage(domain.StageCity); ok {
		cities = city.Selected
	}

	view := View{
		Seed:            ds.Seed,
		GeneratedAt:     ds.GeneratedAt,
		Filters:         result.Stages,
		KPIs:            domain.ComputeKPIs(result.Records, s.reportingDays),
		Map:             domain.BuildMapView(ctx, result.Records, cities, s.geocoder, s.logger),
		AgeDistribution: NewBucketChart(KindHistogram, domain.AgeDistribution(result.Records)),
		TypeBreakdown:   NewBucketChart(KindPie, domain.TypeBreakdown(result.Records)),
		Clusters:        NewScatterChart(result.Records),
		Factors:         FactorChart{Kind: KindBar, Factors: domain.DeterminingFactors()},
	}

	if result.Empty() {
		view.Placeholder = domain.EmptyViewPlaceholder
		s.metrics.EmptyViews.Inc()
		s.logger.Debug("filters produced an empty view", "stages", len(result.Stages))
	}

	s.metrics.DashboardRenders.WithLabelValues("dashboard").Inc()
	s.metrics.DashboardRenderDuration.Observe(domain.Since(start).Seconds())
	return view
}

// Filters applies only the cascade and reports each stage.
func (s *Service) Filters(sel domain.Selection) []domain.StageResult {
	result := s.cascade.Apply(s.dataset().Records, sel)
	s.metrics.DashboardRenders.WithLabelValues("filters").Inc()
	return result.Stages
}

// Catalog lists the closed domains a client needs to build its selectors.
func (s *Service) Catalog() CatalogView {
	return CatalogView{
		IncidentTypes: s.catalog.Types,
		Cities:        s.catalog.Cities,
		Regions:       s.catalog.Regions.Regions(),
		Statuses:      s.catalog.Statuses,
		AgeBrackets:   s.catalog.AgeBrackets,
		Clusters:      domain.Clusters(),
		RiskMin:       s.catalog.RiskMin,
		RiskMax:       s.catalog.RiskMax,
		Bounds:        s.catalog.Bounds,
	}
}

// Predict scores location and incidentType and hands the result to the sink.
// Publishing is best effort: a full queue never fails the prediction.
func (s *Service) Predict(_ context.Context, location, incidentType string) (domain.PredictionEvent, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return domain.PredictionEvent{}, fmt.Errorf("%w: location is required", ErrInvalidRequest)
	}
	typ, ok := domain.ParseIncidentType(strings.TrimSpace(incidentType))
	if !ok {
		return domain.PredictionEvent{}, fmt.Errorf("%w: unknown incident type %q", ErrInvalidRequest, incidentType)
	}

	event := domain.PredictionEvent{
		ID:         uuid.NewString(),
		Prediction: s.predictor.Predict(location, typ),
	}
	s.metrics.Predictions.WithLabelValues(string(event.Label)).Inc()

	if s.sink != nil && !s.sink.Enqueue(event) {
		s.logger.Warn("prediction event not queued for publishing", "id", event.ID)
	}

	s.logger.Info("prediction served",
		"id", event.ID,
		"location", event.Location,
		"incident_type", event.IncidentType,
		"score", event.Score,
		"label", event.Label,
	)
	return event, nil
}

// Warm generates the dataset once to verify the configuration and marks the
// service ready.
func (s *Service) Warm(_ context.Context) error {
	ds := s.dataset()
	if len(ds.Records) == 0 {
		return errors.New("generated dataset is empty")
	}
	s.ready.Store(true)
	s.logger.Info("dataset ready",
		"records", len(ds.Records),
		"seed", ds.Seed,
		"cities", len(s.catalog.Cities),
		"regions", s.catalog.Regions.Len(),
	)
	return nil
}

// CheckReadiness returns nil once Warm has succeeded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("dataset has not been generated yet")
	}
	return nil
}
