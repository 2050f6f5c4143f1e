// Package metrics exposes Prometheus counters for the signal analyzers and the HTTP
// surface. Each Recorder owns its registry so tests and embedded uses stay isolated
// from the global default registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/lead-signals/internal/aidetect"
	"github.com/sells-group/lead-signals/internal/booking"
	"github.com/sells-group/lead-signals/internal/callvolume"
)

// Namespace prefixes every metric name.
const Namespace = "leadsignals"

const noProvider = "none"

// Recorder holds the metric vectors. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	AIDetections      *prometheus.CounterVec
	BookingDetections *prometheus.CounterVec
	CallEstimates     *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram
	AnalysisFailures  *prometheus.CounterVec
	BatchSize         prometheus.Histogram
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New registers all metrics on a fresh registry, including the Go runtime and
// process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	r := &Recorder{registry: reg}
	r.initAnalyzerMetrics(factory)
	r.initHTTPMetrics(factory)
	return r
}

func (r *Recorder) initAnalyzerMetrics(factory promauto.Factory) {
	r.AIDetections = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "ai_detections_total",
		Help:      "AI receptionist detections by method and provider",
	}, []string{"method", "provider"})

	r.BookingDetections = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "booking_detections_total",
		Help:      "Booking system detections by tier and provider",
	}, []string{"tier", "provider"})

	r.CallEstimates = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "call_estimates_total",
		Help:      "Call volume estimates by confidence",
	}, []string{"confidence"})

	r.AnalysisDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Time to analyze a single business",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	r.AnalysisFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "analysis_failures_total",
		Help:      "Businesses that could not be analyzed, by stage",
	}, []string{"stage"})

	r.BatchSize = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "batch_size",
		Help:      "Number of businesses per batch",
		Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000},
	})
}

func (r *Recorder) initHTTPMetrics(factory promauto.Factory) {
	r.HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"route", "status"})

	r.HTTPDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveAI counts one AI detection result.
func (r *Recorder) ObserveAI(res aidetect.Result) {
	if r == nil {
		return
	}
	r.AIDetections.WithLabelValues(string(res.Method), providerLabel(res.Provider)).Inc()
}

// ObserveBooking counts one booking detection result.
func (r *Recorder) ObserveBooking(res booking.Result) {
	if r == nil {
		return
	}
	r.BookingDetections.WithLabelValues(string(res.Tier), providerLabel(res.Provider)).Inc()
}

// ObserveEstimate counts one call-volume estimate.
func (r *Recorder) ObserveEstimate(res callvolume.Result) {
	if r == nil {
		return
	}
	r.CallEstimates.WithLabelValues(string(res.Confidence)).Inc()
}

// ObserveAnalysis records how long one business took.
func (r *Recorder) ObserveAnalysis(d time.Duration) {
	if r == nil {
		return
	}
	r.AnalysisDuration.Observe(d.Seconds())
}

// ObserveFailure counts a business that failed at stage.
func (r *Recorder) ObserveFailure(stage string) {
	if r == nil {
		return
	}
	r.AnalysisFailures.WithLabelValues(stage).Inc()
}

// ObserveBatch records the size of a submitted batch.
func (r *Recorder) ObserveBatch(n int) {
	if r == nil {
		return
	}
	r.BatchSize.Observe(float64(n))
}

// ObserveRequest records one served HTTP request.
func (r *Recorder) ObserveRequest(route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

func providerLabel(p *string) string {
	if p == nil || *p == "" {
		return noProvider
	}
	return *p
}
