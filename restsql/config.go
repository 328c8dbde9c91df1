package restsql

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/relaysql/pgrestsql/metrics"
	"github.com/relaysql/pgrestsql/slog"
)

// Config is restsql's facade-level configuration: logging, the metrics
// registry the translate counters/histogram publish to, and a default
// schema override for callers whose request resolves no schema of its own
// (no dotted path prefix, no Accept-Profile/Content-Profile header).
type Config struct {
	Log             slog.Config
	MetricsRegistry *prometheus.Registry
	DefaultSchema   string
}

// LoadConfig loads Config from environment variables, service-prefixed the
// same way [slog.LoadConfig] is: a service "PGRESTSQL" reads the logging
// variables via slog.LoadConfig plus PGRESTSQL_DEFAULT_SCHEMA. An unset or
// empty PGRESTSQL_DEFAULT_SCHEMA keeps [defaultSchemaFallback].
func LoadConfig(service string) (Config, error) {
	logCfg, err := slog.LoadConfig(service)
	if err != nil {
		return Config{}, err
	}
	schema := os.Getenv(service + "_DEFAULT_SCHEMA")
	if schema == "" {
		schema = defaultSchemaFallback
	}
	return Config{Log: logCfg, DefaultSchema: schema}, nil
}

// Configure applies cfg: it configures the shared slog logger, registers the
// translate metrics against cfg.MetricsRegistry when one is given, and
// overrides the schema [ParseRequest] falls back to. Call it once, as early
// as possible, the same way callers call [slog.Configure].
func Configure(cfg Config) error {
	if err := slog.Configure(cfg.Log); err != nil {
		return err
	}
	if cfg.MetricsRegistry != nil {
		metrics.MustRegister(cfg.MetricsRegistry)
	}
	if cfg.DefaultSchema != "" {
		defaultSchema = cfg.DefaultSchema
	}
	return nil
}
