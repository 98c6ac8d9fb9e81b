package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gjoin"

// Prometheus implements JoinHooks and CacheHooks with client_golang
// collectors registered on a caller-supplied registry.
type Prometheus struct {
	layerPrefixes   *prometheus.CounterVec
	layerDropped    *prometheus.CounterVec
	layerProposed   *prometheus.CounterVec
	layerCandidates *prometheus.CounterVec
	layerDuration   *prometheus.HistogramVec
	queryRows       *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	queryErrors     *prometheus.CounterVec
	cacheEvents     *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewPrometheus registers the gjoin collectors on reg.
func NewPrometheus(reg *prometheus.Registry) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		gatherer: reg,
		layerPrefixes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layer_prefixes_total",
			Help:      "Prefixes entering a join layer.",
		}, []string{"query", "layer"}),
		layerDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layer_dropped_total",
			Help:      "Prefixes dropped in a join layer.",
		}, []string{"query", "layer"}),
		layerProposed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layer_proposed_total",
			Help:      "Candidates proposed by owning extenders.",
		}, []string{"query", "layer"}),
		layerCandidates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layer_candidates_total",
			Help:      "Candidates surviving every intersection.",
		}, []string{"query", "layer"}),
		layerDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:                       namespace,
			Name:                            "layer_duration_ms",
			Help:                            "Time a worker spends extending one layer.",
			Buckets:                         []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 30000},
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: time.Hour,
		}, []string{"query", "layer"}),
		queryRows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_rows_total",
			Help:      "Output rows produced by completed queries.",
		}, []string{"query"}),
		queryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_ms",
			Help:      "Wall time of a query run.",
			Buckets:   []float64{10, 100, 1000, 10000, 60000, 600000},
		}, []string{"query"}),
		queryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_errors_total",
			Help:      "Query runs that failed.",
		}, []string{"query"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Result cache lookups and writes by outcome.",
		}, []string{"type", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the result cache.",
		}, []string{"type"}),
	}
}

func (p *Prometheus) OnLayerStart(context.Context, string, int, int) {}

func (p *Prometheus) OnLayerComplete(_ context.Context, query string, layer int, s LayerSummary, d time.Duration) {
	l := layerLabel(layer)
	p.layerPrefixes.WithLabelValues(query, l).Add(float64(s.Prefixes))
	p.layerDropped.WithLabelValues(query, l).Add(float64(s.Dropped))
	p.layerProposed.WithLabelValues(query, l).Add(float64(s.Proposed))
	p.layerCandidates.WithLabelValues(query, l).Add(float64(s.Candidates))
	p.layerDuration.WithLabelValues(query, l).Observe(float64(d.Milliseconds()))
}

func (p *Prometheus) OnQueryComplete(_ context.Context, query string, rows uint64, d time.Duration, err error) {
	if err != nil {
		p.queryErrors.WithLabelValues(query).Inc()
		return
	}
	p.queryRows.WithLabelValues(query).Add(float64(rows))
	p.queryDuration.WithLabelValues(query).Observe(float64(d.Milliseconds()))
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// Handler returns a router serving /metrics from the registry and a
// /healthz liveness probe.
func (p *Prometheus) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{}))
	return r
}

func layerLabel(layer int) string {
	return strconv.Itoa(layer)
}

var (
	_ JoinHooks  = (*Prometheus)(nil)
	_ CacheHooks = (*Prometheus)(nil)
)
