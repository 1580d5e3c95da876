package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fireops"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard service.
type Metrics struct {
	DashboardRenders        *prometheus.CounterVec // labels: view={dashboard,filters}
	DashboardRenderDuration prometheus.Histogram
	EmptyViews              prometheus.Counter
	DatasetRecords          prometheus.Gauge

	// Risk simulator metrics.
	Predictions *prometheus.CounterVec // labels: label={Incident,Hoax}

	// Prediction event pipeline metrics.
	PredictionsPublished    prometheus.Counter
	PredictionsDropped      prometheus.Counter
	PredictionPublishErrors prometheus.Counter
	PublisherRunning        prometheus.Gauge
	PublishBatchSize        prometheus.Histogram
	PublishDuration         prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.DashboardRenders,
		m.DashboardRenderDuration,
		m.EmptyViews,
		m.DatasetRecords,
		m.Predictions,
		m.PredictionsPublished,
		m.PredictionsDropped,
		m.PredictionPublishErrors,
		m.PublisherRunning,
		m.PublishBatchSize,
		m.PublishDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DashboardRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_renders_total",
			Help:      "Dashboard and filter views computed, by view.",
		}, []string{"view"}),
		DashboardRenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dashboard_render_duration_seconds",
			Help:      "Time to generate the dataset and compute a full dashboard view.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		EmptyViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_views_total",
			Help:      "Dashboard views where no record survived the filters.",
		}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Number of records in the generated dataset.",
		}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Risk predictions served, by label.",
		}, []string{"label"}),
		PredictionsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_published_total",
			Help:      "Prediction events written to Kafka.",
		}),
		PredictionsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_dropped_total",
			Help:      "Prediction events dropped because the publish queue was full.",
		}),
		PredictionPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_publish_errors_total",
			Help:      "Failed attempts to publish a batch of prediction events.",
		}),
		PublisherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publisher_running",
			Help:      "1 when the prediction publisher is active, 0 when shut down.",
		}),
		PublishBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_batch_size",
			Help:      "Number of prediction events per Kafka write.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_duration_seconds",
			Help:      "Duration of a successful Kafka batch write.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when map centering via geocoding is enabled, 0 otherwise.",
		}),
	}
}
