// Package metrics exposes the pipeline's Prometheus collectors
package metrics

import (
	"net/http"
	"sync"
	"time"

	perr "factsongs/internal/platform/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "factsongs"

// Pipeline captures extract and transform health signals
// a nil *Pipeline is valid and records nothing
type Pipeline struct {
	pages       *prometheus.CounterVec
	items       *prometheus.CounterVec
	rowsLoaded  *prometheus.CounterVec
	loadErrors  *prometheus.CounterVec
	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
}

var (
	defaultOnce sync.Once
	defaultP    *Pipeline
)

// Default returns the process singleton registered on prometheus.DefaultRegisterer
func Default() *Pipeline {
	defaultOnce.Do(func() { defaultP = New(prometheus.DefaultRegisterer) })
	return defaultP
}

// New builds and registers the collectors on reg
func New(reg prometheus.Registerer) *Pipeline {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Pipeline{
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "extract", Name: "pages_fetched_total",
			Help: "Collection pages fetched from the catalogue API.",
		}, []string{"collection"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "extract", Name: "items_fetched_total",
			Help: "Collection items fetched from the catalogue API.",
		}, []string{"collection"}),
		rowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "warehouse", Name: "rows_loaded_total",
			Help: "Rows written by successful table replaces.",
		}, []string{"table"}),
		loadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "warehouse", Name: "load_errors_total",
			Help: "Table replaces that failed.",
		}, []string{"table"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "runs_total",
			Help: "Finished pipeline runs by stage and outcome.",
		}, []string{"stage", "status"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "run_duration_seconds",
			Help:    "Wall time of pipeline runs.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}, []string{"stage"}),
	}
	reg.MustRegister(p.pages, p.items, p.rowsLoaded, p.loadErrors, p.runs, p.runDuration)
	return p
}

// PageFetched records one fetched page of collection with n items
func (p *Pipeline) PageFetched(collection string, n int) {
	if p == nil {
		return
	}
	p.pages.WithLabelValues(collection).Inc()
	p.items.WithLabelValues(collection).Add(float64(n))
}

// TableLoaded records the outcome of one table replace
func (p *Pipeline) TableLoaded(table string, rows int, err error) {
	if p == nil {
		return
	}
	if err != nil {
		p.loadErrors.WithLabelValues(table).Inc()
		return
	}
	p.rowsLoaded.WithLabelValues(table).Add(float64(rows))
}

// RunFinished records a finished run; status is "ok" or the failure kind
func (p *Pipeline) RunFinished(stage string, start time.Time, err error) {
	if p == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = perr.Kind(err)
	}
	p.runs.WithLabelValues(stage, status).Inc()
	p.runDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Handler serves the default registry in the exposition format
func Handler() http.Handler { return promhttp.Handler() }
