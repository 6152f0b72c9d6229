package readiness

import (
	"sort"
	"time"
)

// Weights are the relative contributions of each subsystem to the
// composite score. They are renormalized over the subset of subsystems
// actually included in a given aggregation.
type Weights struct {
	Personnel float64 `json:"personnel" yaml:"personnel"`
	Equipment float64 `json:"equipment" yaml:"equipment"`
	Mission   float64 `json:"mission" yaml:"mission"`
}

// DefaultWeights returns the default subsystem weights.
// Equipment and personnel dominate; mission status is a lighter signal.
func DefaultWeights() Weights {
	return Weights{Personnel: 0.4, Equipment: 0.4, Mission: 0.2}
}

// Of returns the weight for the given subsystem.
func (w Weights) Of(sub Subsystem) float64 {
	switch sub {
	case SubsystemPersonnel:
		return w.Personnel
	case SubsystemEquipment:
		return w.Equipment
	case SubsystemMission:
		return w.Mission
	default:
		return 0
	}
}

// Thresholds map a composite score to a status.
// score >= Ready is READY, score >= Degraded is DEGRADED, below is NOT_READY.
type Thresholds struct {
	Ready    float64 `json:"ready" yaml:"ready"`
	Degraded float64 `json:"degraded" yaml:"degraded"`
}

// DefaultThresholds returns the default status thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Ready: 90, Degraded: 60}
}

// Calibration parameterizes the deployment-time estimate. The estimate is
// a linear ramp from MinHours at score 100 to MinHours+SpreadHours at
// score 0; operators tune these against observed deployment history.
type Calibration struct {
	MinHours    float64 `json:"min_hours" yaml:"min_hours"`
	SpreadHours float64 `json:"spread_hours" yaml:"spread_hours"`
}

// DefaultCalibration returns the default deployment-time calibration:
// a 6-hour deployment target at full readiness, stretching to 48 hours
// at zero readiness.
func DefaultCalibration() Calibration {
	return Calibration{MinHours: 6, SpreadHours: 42}
}

// Hours returns the estimated deployment hours for a composite score.
func (c Calibration) Hours(score float64) float64 {
	return c.MinHours + (100-clamp(score))/100*c.SpreadHours
}

// Config configures an Aggregator.
type Config struct {
	Weights     Weights
	Thresholds  Thresholds
	Calibration Calibration

	// MaxBottlenecks caps the bottleneck list to bound response size.
	// Default: 10
	MaxBottlenecks int
}

// DefaultConfig returns the default aggregator configuration.
func DefaultConfig() Config {
	return Config{
		Weights:        DefaultWeights(),
		Thresholds:     DefaultThresholds(),
		Calibration:    DefaultCalibration(),
		MaxBottlenecks: 10,
	}
}

// Aggregator turns subsystem summaries into a composite readiness
// snapshot. Aggregate is a pure function: no hidden state, no I/O, and
// it never fails for typed inputs.
type Aggregator struct {
	config Config
}

// NewAggregator creates a new aggregator.
func NewAggregator(config ...Config) *Aggregator {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Weights == (Weights{}) {
			cfg.Weights = DefaultWeights()
		}
		if cfg.Thresholds == (Thresholds{}) {
			cfg.Thresholds = DefaultThresholds()
		}
		if cfg.Calibration == (Calibration{}) {
			cfg.Calibration = DefaultCalibration()
		}
		if cfg.MaxBottlenecks <= 0 {
			cfg.MaxBottlenecks = 10
		}
	}
	return &Aggregator{config: cfg}
}

// Config returns the aggregator configuration.
func (a *Aggregator) Config() Config {
	return a.config
}

// Aggregate computes a composite readiness snapshot from the subsystem
// summaries selected by opts. Summaries for excluded subsystems are
// ignored. An unavailable summary contributes zero to the score, records
// a "data unavailable" bottleneck, and forces the status to at least
// DEGRADED. With zero subsystems included the status is UNKNOWN and both
// the score and the deployment estimate are undefined.
//
// The Version and Stale fields of the returned snapshot are zero; the
// caching layer owns both.
func (a *Aggregator) Aggregate(taskForceID string, opts Options, personnel, equipment, mission SubsystemSummary) *Snapshot {
	snap := &Snapshot{
		TaskForceID: taskForceID,
		ComputedAt:  time.Now(),
	}

	if opts.None() {
		snap.Status = StatusUnknown
		return snap
	}

	summaries := []SubsystemSummary{personnel, equipment, mission}
	subsystems := []Subsystem{SubsystemPersonnel, SubsystemEquipment, SubsystemMission}

	var weightSum, weighted float64
	var bottlenecks []Bottleneck
	anyUnavailable := false

	for i, sub := range subsystems {
		if !opts.Includes(sub) {
			continue
		}
		w := a.config.Weights.Of(sub)
		weightSum += w

		s := summaries[i]
		if !s.Available {
			anyUnavailable = true
			bottlenecks = append(bottlenecks, Bottleneck{
				Subsystem:   sub,
				Description: "data unavailable",
				Severity:    UnavailableGapSeverity,
			})
			continue
		}

		weighted += w * clamp(s.CompletenessPct)
		for _, gap := range s.CriticalGaps {
			bottlenecks = append(bottlenecks, Bottleneck{
				Subsystem:   sub,
				Description: gap.Description,
				Severity:    gap.Severity,
			})
		}
	}

	var score float64
	if weightSum > 0 {
		// Renormalize over the included subset: an excluded subsystem's
		// weight redistributes proportionally over the rest.
		score = weighted / weightSum
	}
	score = clamp(score)
	snap.CompositeScore = &score

	switch {
	case score >= a.config.Thresholds.Ready:
		snap.Status = StatusReady
	case score >= a.config.Thresholds.Degraded:
		snap.Status = StatusDegraded
	default:
		snap.Status = StatusNotReady
	}
	if anyUnavailable && snap.Status == StatusReady {
		snap.Status = StatusDegraded
	}

	snap.Bottlenecks = a.sortBottlenecks(bottlenecks)

	hours := a.config.Calibration.Hours(score)
	snap.EstimatedDeploymentHours = &hours

	return snap
}

// sortBottlenecks orders bottlenecks by subsystem weight descending, then
// severity descending, and caps the list at MaxBottlenecks.
func (a *Aggregator) sortBottlenecks(bottlenecks []Bottleneck) []Bottleneck {
	sort.SliceStable(bottlenecks, func(i, j int) bool {
		wi, wj := a.config.Weights.Of(bottlenecks[i].Subsystem), a.config.Weights.Of(bottlenecks[j].Subsystem)
		if wi != wj {
			return wi > wj
		}
		return bottlenecks[i].Severity > bottlenecks[j].Severity
	})
	if len(bottlenecks) > a.config.MaxBottlenecks {
		bottlenecks = bottlenecks[:a.config.MaxBottlenecks]
	}
	return bottlenecks
}

// clamp bounds a completeness or score value to [0, 100]. Misbehaving
// accessors occasionally report out-of-range values.
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
