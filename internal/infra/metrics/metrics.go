package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Recorder exposes repository flush and reload outcomes as Prometheus
// collectors on a private registry.
type Recorder struct {
	registry       *prometheus.Registry
	handler        http.Handler
	flushTotal     *prometheus.CounterVec
	flushDuration  *prometheus.HistogramVec
	reloadTotal    *prometheus.CounterVec
	skippedRecords *prometheus.CounterVec
	loadedRecords  *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	flushTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_flush_total",
		Help: "Snapshot flushes by record kind and result",
	}, []string{"kind", "result"})

	flushDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snapshot_flush_duration_seconds",
		Help:    "Time spent encoding and writing a snapshot",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	reloadTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_reload_total",
		Help: "Snapshot reloads by record kind and result",
	}, []string{"kind", "result"})

	skippedRecords := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_skipped_records_total",
		Help: "Snapshot entries skipped during reload",
	}, []string{"kind"})

	loadedRecords := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "snapshot_loaded_records",
		Help: "Records loaded by the most recent reload",
	}, []string{"kind"})

	registry.MustRegister(flushTotal, flushDuration, reloadTotal, skippedRecords, loadedRecords)

	return &Recorder{
		registry:       registry,
		handler:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		flushTotal:     flushTotal,
		flushDuration:  flushDuration,
		reloadTotal:    reloadTotal,
		skippedRecords: skippedRecords,
		loadedRecords:  loadedRecords,
	}
}

func (r *Recorder) ObserveFlush(kind string, err error, elapsed time.Duration) {
	r.flushTotal.WithLabelValues(kind, result(err)).Inc()
	r.flushDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveReload(kind string, loaded, skipped int, err error) {
	res := result(err)
	if err == nil && skipped > 0 {
		res = "partial"
	}
	r.reloadTotal.WithLabelValues(kind, res).Inc()
	r.skippedRecords.WithLabelValues(kind).Add(float64(skipped))
	r.loadedRecords.WithLabelValues(kind).Set(float64(loaded))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return r.handler
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
