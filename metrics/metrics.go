// Package metrics instruments translate calls with Prometheus collectors,
// following the same registration shape the carried-over service metrics
// used: a package-level collector set, a MustRegister entry point the
// caller invokes once at startup, and plain functions to record
// observations rather than exposing the collectors themselves.
package metrics

import (
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pgrestsql_build_info",
			Help: "Build information of the pgrestsql translator",
		},
		[]string{"revision", "goversion"},
	)

	translateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgrestsql_translate_total",
			Help: "Number of translate calls, by operation kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	translateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pgrestsql_translate_duration_seconds",
			Help:    "Duration of a single translate call, by operation kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

// MustRegister registers every collector on registry. Call once at startup.
func MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(buildInfo, translateTotal, translateDuration)
}

// SampleBuildInfo sets the build-info gauge once at startup.
func SampleBuildInfo() {
	goVersion := "undefined"
	revision := "undefined"

	goBuildInfo, ok := debug.ReadBuildInfo()
	if ok {
		goVersion = goBuildInfo.GoVersion
		for _, setting := range goBuildInfo.Settings {
			if setting.Key == "vcs.revision" {
				revision = setting.Value
			}
		}
	}

	buildInfo.With(prometheus.Labels{
		"goversion": goVersion,
		"revision":  revision,
	}).Set(1.0)
}

// ObserveTranslate records one translate call's outcome and wall time.
// outcome is "ok" or "error"; kind is the operation kind's name (e.g.
// "select", "insert").
func ObserveTranslate(kind, outcome string, elapsed time.Duration) {
	translateTotal.With(prometheus.Labels{"kind": kind, "outcome": outcome}).Inc()
	translateDuration.With(prometheus.Labels{"kind": kind}).Observe(elapsed.Seconds())
}
