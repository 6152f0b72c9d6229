package readiness

import "time"

// Subsystem identifies one of the accountability domains folded into a
// composite readiness assessment.
type Subsystem int

const (
	// SubsystemPersonnel covers roster and position accountability.
	SubsystemPersonnel Subsystem = iota
	// SubsystemEquipment covers equipment cache accountability.
	SubsystemEquipment
	// SubsystemMission covers mission assignment status.
	SubsystemMission
)

// String returns the string representation of the subsystem.
func (s Subsystem) String() string {
	switch s {
	case SubsystemPersonnel:
		return "personnel"
	case SubsystemEquipment:
		return "equipment"
	case SubsystemMission:
		return "mission"
	default:
		return "unknown"
	}
}

// Status represents the composite readiness status of a task force.
type Status int

const (
	// StatusReady indicates the task force meets the deployment threshold.
	StatusReady Status = iota
	// StatusDegraded indicates reduced but workable readiness.
	StatusDegraded
	// StatusNotReady indicates the task force cannot deploy.
	StatusNotReady
	// StatusUnknown indicates readiness could not be assessed.
	StatusUnknown
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "READY"
	case StatusDegraded:
		return "DEGRADED"
	case StatusNotReady:
		return "NOT_READY"
	case StatusUnknown:
		return "UNKNOWN"
	default:
		return "UNKNOWN"
	}
}

// UnavailableGapSeverity is the severity assigned to the synthetic gap
// recorded when a subsystem's data source cannot be reached. It sorts
// ahead of any caller-supplied gap severity.
const UnavailableGapSeverity = 1 << 30

// Gap describes a single readiness deficiency within a subsystem.
// Severity is a caller-supplied ordinal; higher is more severe.
type Gap struct {
	Description string `json:"description"`
	Severity    int    `json:"severity"`
}

// SubsystemSummary is the completeness report a data source produces for
// one subsystem of a task force. Summaries are immutable once returned
// and are not retained beyond a single aggregation.
type SubsystemSummary struct {
	Subsystem       Subsystem `json:"subsystem"`
	CompletenessPct float64   `json:"completeness_pct"`
	CriticalGaps    []Gap     `json:"critical_gaps,omitempty"`
	Available       bool      `json:"available"`
	AsOf            time.Time `json:"as_of"`
}

// Unavailable returns a summary marking the subsystem's source as
// unreachable. The aggregator treats its contribution as zero.
func Unavailable(sub Subsystem) SubsystemSummary {
	return SubsystemSummary{Subsystem: sub, Available: false, AsOf: time.Now()}
}

// Bottleneck is a subsystem+gap pair in a snapshot's bottleneck list.
type Bottleneck struct {
	Subsystem   Subsystem `json:"subsystem"`
	Description string    `json:"description"`
	Severity    int       `json:"severity"`
}

// Snapshot is an immutable composite readiness assessment for a task
// force. CompositeScore and EstimatedDeploymentHours are nil when the
// corresponding value is undefined (StatusUnknown).
type Snapshot struct {
	TaskForceID              string       `json:"task_force_id"`
	CompositeScore           *float64     `json:"composite_score"`
	Status                   Status       `json:"status"`
	EstimatedDeploymentHours *float64     `json:"estimated_deployment_hours"`
	Bottlenecks              []Bottleneck `json:"bottlenecks,omitempty"`
	Version                  uint64       `json:"version"`
	ComputedAt               time.Time    `json:"computed_at"`
	Stale                    bool         `json:"stale"`
	Annotation               string       `json:"annotation,omitempty"`
}

// UnknownSnapshot builds a snapshot with StatusUnknown and the given
// error annotation. Used when a computation failed or timed out and the
// caller must still receive a structured result.
func UnknownSnapshot(taskForceID, annotation string) *Snapshot {
	return &Snapshot{
		TaskForceID: taskForceID,
		Status:      StatusUnknown,
		ComputedAt:  time.Now(),
		Annotation:  annotation,
	}
}
