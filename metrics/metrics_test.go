package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/relaysql/pgrestsql/metrics"
)

func TestMustRegisterAndSample(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)
	metrics.SampleBuildInfo()
}

func TestObserveTranslate(t *testing.T) {
	t.Parallel()

	// Just guarantee this doesn't panic on label combinations used by restsql.
	metrics.ObserveTranslate("select", "ok", 2*time.Millisecond)
	metrics.ObserveTranslate("delete", "error", time.Microsecond)
}
