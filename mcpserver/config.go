package mcpserver

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/jonwraymond/usarops/observe"
)

// Config is the environment-driven server configuration. The YAML file
// named by USAROPS_CONFIG_FILE carries the operator-tunable scoring and
// sizing parameters; everything here controls the process itself.
type Config struct {
	ConfigFile     string  `env:"USAROPS_CONFIG_FILE"`
	LogLevel       string  `env:"USAROPS_LOG_LEVEL" envDefault:"info"`
	TraceExporter  string  `env:"USAROPS_TRACE_EXPORTER" envDefault:"none"`
	TraceSamplePct float64 `env:"USAROPS_TRACE_SAMPLE_PCT" envDefault:"1.0"`
	MetricExporter string  `env:"USAROPS_METRIC_EXPORTER" envDefault:"none"`
}

// ParseEnv loads the server configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ObserveConfig maps the server configuration onto the telemetry
// configuration.
func (c Config) ObserveConfig() observe.Config {
	return observe.Config{
		ServiceName: "usarops",
		Version:     serverVersion,
		Tracing: observe.TracingConfig{
			Enabled:   c.TraceExporter != "" && c.TraceExporter != "none",
			Exporter:  c.TraceExporter,
			SamplePct: c.TraceSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.MetricExporter != "" && c.MetricExporter != "none",
			Exporter: c.MetricExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
		},
	}
}
