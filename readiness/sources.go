package readiness

import (
	"context"
	"errors"
)

// ErrSourceUnavailable signals that a data source could not be reached.
// Sources may return it (or any other error) from Summarize; the caller
// converts the failure into an Unavailable summary rather than aborting
// the aggregation.
var ErrSourceUnavailable = errors.New("readiness: source unavailable")

// PersonnelSource reports personnel accountability for a task force.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Summarize must honor cancellation/deadlines.
// - Errors: any error is treated as the source being unavailable.
type PersonnelSource interface {
	Summarize(ctx context.Context, taskForceID string) (SubsystemSummary, error)
}

// EquipmentSource reports equipment accountability for a task force.
type EquipmentSource interface {
	Summarize(ctx context.Context, taskForceID string) (SubsystemSummary, error)
}

// MissionSource reports mission assignment status for a task force.
type MissionSource interface {
	Summarize(ctx context.Context, taskForceID string) (SubsystemSummary, error)
}

// Sources bundles the three subsystem accessors an aggregation reads from.
type Sources struct {
	Personnel PersonnelSource
	Equipment EquipmentSource
	Mission   MissionSource
}

// SourceFunc adapts an ordinary function to any of the source interfaces.
type SourceFunc func(ctx context.Context, taskForceID string) (SubsystemSummary, error)

// Summarize calls the function.
func (f SourceFunc) Summarize(ctx context.Context, taskForceID string) (SubsystemSummary, error) {
	return f(ctx, taskForceID)
}

// Options selects which subsystems an aggregation includes.
type Options struct {
	IncludePersonnel bool `json:"include_personnel"`
	IncludeEquipment bool `json:"include_equipment"`
	IncludeMissions  bool `json:"include_missions"`
}

// AllSubsystems returns options including every subsystem.
func AllSubsystems() Options {
	return Options{IncludePersonnel: true, IncludeEquipment: true, IncludeMissions: true}
}

// Includes reports whether the given subsystem is selected.
func (o Options) Includes(sub Subsystem) bool {
	switch sub {
	case SubsystemPersonnel:
		return o.IncludePersonnel
	case SubsystemEquipment:
		return o.IncludeEquipment
	case SubsystemMission:
		return o.IncludeMissions
	default:
		return false
	}
}

// None reports whether no subsystem is selected.
func (o Options) None() bool {
	return !o.IncludePersonnel && !o.IncludeEquipment && !o.IncludeMissions
}
