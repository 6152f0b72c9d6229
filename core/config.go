package core

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/usarops/cache"
	"github.com/jonwraymond/usarops/observe"
	"github.com/jonwraymond/usarops/readiness"
	"github.com/jonwraymond/usarops/task"
)

// Config configures a Core. Zero values fall back to the defaults of the
// underlying packages.
type Config struct {
	Aggregation readiness.Config
	Cache       cache.Config
	Tasks       task.Config

	// Observer supplies tracing, metrics, and logging. Defaults to a
	// no-op observer.
	Observer observe.Observer
}

// FileConfig is the on-disk YAML shape of the tunable parameters.
// Operators adjust cache sizing, pool sizing, and the scoring model
// without rebuilding; anything omitted keeps its default.
type FileConfig struct {
	CacheCapacity       int     `yaml:"cache_capacity"`
	CacheTTLSeconds     float64 `yaml:"cache_ttl_seconds"`
	AwaitTimeoutSeconds float64 `yaml:"await_timeout_seconds"`

	WorkerPoolSize     int     `yaml:"worker_pool_size"`
	TaskQueueDepth     int     `yaml:"task_queue_depth"`
	TaskTimeoutSeconds float64 `yaml:"task_timeout_seconds"`

	MaxBottlenecks        int                   `yaml:"max_bottlenecks"`
	SubsystemWeights      readiness.Weights     `yaml:"subsystem_weights"`
	ScoreThresholds       readiness.Thresholds  `yaml:"score_thresholds"`
	DeploymentCalibration readiness.Calibration `yaml:"deployment_calibration"`
}

// Validate checks the file configuration for values the service cannot
// run with.
func (f *FileConfig) Validate() error {
	if f.CacheCapacity < 0 {
		return fmt.Errorf("cache_capacity must not be negative, got %d", f.CacheCapacity)
	}
	if f.CacheTTLSeconds < 0 {
		return fmt.Errorf("cache_ttl_seconds must not be negative, got %v", f.CacheTTLSeconds)
	}
	if f.AwaitTimeoutSeconds < 0 {
		return fmt.Errorf("await_timeout_seconds must not be negative, got %v", f.AwaitTimeoutSeconds)
	}
	if f.WorkerPoolSize < 0 {
		return fmt.Errorf("worker_pool_size must not be negative, got %d", f.WorkerPoolSize)
	}
	if f.TaskQueueDepth < 0 {
		return fmt.Errorf("task_queue_depth must not be negative, got %d", f.TaskQueueDepth)
	}
	if f.TaskTimeoutSeconds < 0 {
		return fmt.Errorf("task_timeout_seconds must not be negative, got %v", f.TaskTimeoutSeconds)
	}

	w := f.SubsystemWeights
	if w.Personnel < 0 || w.Equipment < 0 || w.Mission < 0 {
		return errors.New("subsystem_weights must not be negative")
	}
	if w != (readiness.Weights{}) && w.Personnel+w.Equipment+w.Mission <= 0 {
		return errors.New("subsystem_weights must sum to a positive value")
	}

	t := f.ScoreThresholds
	if t != (readiness.Thresholds{}) {
		if t.Degraded < 0 || t.Ready > 100 {
			return fmt.Errorf("score_thresholds must lie within [0, 100], got ready=%v degraded=%v", t.Ready, t.Degraded)
		}
		if t.Ready < t.Degraded {
			return fmt.Errorf("score_thresholds.ready (%v) must not be below score_thresholds.degraded (%v)", t.Ready, t.Degraded)
		}
	}

	c := f.DeploymentCalibration
	if c.MinHours < 0 || c.SpreadHours < 0 {
		return errors.New("deployment_calibration hours must not be negative")
	}

	return nil
}

// Config converts the file configuration into a Config, leaving omitted
// values zero so package defaults apply.
func (f *FileConfig) Config() Config {
	return Config{
		Aggregation: readiness.Config{
			Weights:        f.SubsystemWeights,
			Thresholds:     f.ScoreThresholds,
			Calibration:    f.DeploymentCalibration,
			MaxBottlenecks: f.MaxBottlenecks,
		},
		Cache: cache.Config{
			Capacity:     f.CacheCapacity,
			TTL:          secondsToDuration(f.CacheTTLSeconds),
			AwaitTimeout: secondsToDuration(f.AwaitTimeoutSeconds),
		},
		Tasks: task.Config{
			Workers:     f.WorkerPoolSize,
			QueueDepth:  f.TaskQueueDepth,
			TaskTimeout: secondsToDuration(f.TaskTimeoutSeconds),
		},
	}
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := fc.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return fc.Config(), nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
