// Package telemetry wires go-metrics to a Prometheus registry and holds the
// counters emitted by the exporter.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/armon/go-metrics"
	prometheusMetrics "github.com/armon/go-metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsPrefix = "currency_exporter"

// Telemetry owns the registry the metrics are exposed from
type Telemetry struct {
	registry *prometheus.Registry
	inmem    *metrics.InmemSink
}

// Setup installs the global go-metrics instance. Until Setup is called every
// counter below goes to the default blackhole sink.
func Setup() (*Telemetry, error) {
	registry := prometheus.NewRegistry()

	inm := metrics.NewInmemSink(10*time.Second, time.Minute)

	promSink, err := prometheusMetrics.NewPrometheusSinkFrom(prometheusMetrics.PrometheusOpts{
		Name:       "currency_exporter_prometheus_sink",
		Registerer: registry,
		Expiration: 0,
	})
	if err != nil {
		return nil, err
	}

	metricsConf := metrics.DefaultConfig(metricsPrefix)
	metricsConf.EnableHostname = false
	metricsConf.EnableRuntimeMetrics = false

	if _, err := metrics.NewGlobal(metricsConf, metrics.FanoutSink{inm, promSink}); err != nil {
		return nil, err
	}

	return &Telemetry{registry: registry, inmem: inm}, nil
}

// Handler serves the Prometheus exposition of the registry
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// Inmem returns the in-memory sink, mostly useful in tests
func (t *Telemetry) Inmem() *metrics.InmemSink {
	return t.inmem
}

func IncrFetchSucceeded(records int) {
	metrics.IncrCounter([]string{"fetch", "succeeded"}, 1)
	metrics.IncrCounter([]string{"fetch", "records"}, float32(records))
}

func IncrFetchFailed(stage string) {
	metrics.IncrCounterWithLabels([]string{"fetch", "failed"}, 1, []metrics.Label{{Name: "stage", Value: stage}})
}

func MeasureFetch(start time.Time) {
	metrics.MeasureSince([]string{"fetch", "duration"}, start)
}

func IncrPersisted(format string) {
	metrics.IncrCounterWithLabels([]string{"persist", "files"}, 1, []metrics.Label{{Name: "format", Value: format}})
}

func IncrSnapshotsStored() {
	metrics.IncrCounter([]string{"snapshots", "stored"}, 1)
}

func MeasureRequest(route string, status int, start time.Time) {
	labels := []metrics.Label{{Name: "route", Value: route}, {Name: "status", Value: strconv.Itoa(status)}}
	metrics.IncrCounterWithLabels([]string{"http", "requests"}, 1, labels)
	metrics.MeasureSinceWithLabels([]string{"http", "duration"}, start, labels[:1])
}
